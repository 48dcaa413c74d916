package domain

import "strings"

type SortOrder int

const (
	SortDesc SortOrder = -1
	SortAsc  SortOrder = 1
)

func (o SortOrder) String() string {
	if o == SortAsc {
		return "asc"
	}
	return "desc"
}

// QuerySpec is the normalized, store-ready form of a listing search.
// A nil pointer or empty string leaves the corresponding field unconstrained.
type QuerySpec struct {
	NameFilter string
	Offer      *bool
	Furnished  *bool
	Parking    *bool
	Type       string
	SortField  string
	SortOrder  SortOrder
	Limit      int
	Offset     int
}

// Matches reports whether l satisfies every filter of q. Sorting and paging are not considered.
func (q QuerySpec) Matches(l *Listing) bool {
	if q.Offer != nil && l.Offer != *q.Offer {
		return false
	}
	if q.Furnished != nil && l.Furnished != *q.Furnished {
		return false
	}
	if q.Parking != nil && l.Parking != *q.Parking {
		return false
	}
	if q.Type != "" && string(l.Type) != q.Type {
		return false
	}
	if q.NameFilter != "" && !strings.Contains(strings.ToLower(l.Name), strings.ToLower(q.NameFilter)) {
		return false
	}
	return true
}
