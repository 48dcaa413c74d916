package usecase

import (
	"strconv"
	"strings"

	"github.com/Abdurahmanit/estate-marketplace/internal/listing/domain"
)

const (
	DefaultPageSize  = 9
	MaxPageSize      = 100
	DefaultSortField = "createdAt"
)

// sortableFields lists the listing fields a search may be ordered by.
var sortableFields = map[string]bool{
	"createdAt":     true,
	"updatedAt":     true,
	"regularPrice":  true,
	"discountPrice": true,
	"name":          true,
	"bedrooms":      true,
	"bathrooms":     true,
}

// RawQuery holds the optional, untyped search parameters of a get-many request.
// Absent keys are simply missing from the map.
type RawQuery map[string]string

func (q RawQuery) lookup(key string) (string, bool) {
	v, ok := q[key]
	return v, ok
}

// TranslateQuery turns raw search parameters into a QuerySpec. It never fails:
// malformed values fall back to their defaults.
//
// A boolean filter given as the literal "false" is treated exactly like an absent one,
// so offer=false does not restrict results to listings without an offer.
func TranslateQuery(raw RawQuery) domain.QuerySpec {
	spec := domain.QuerySpec{
		Limit:     parsePositiveInt(raw, "limit", DefaultPageSize),
		Offset:    parseNonNegativeInt(raw, "startIndex", 0),
		Offer:     parseBoolFilter(raw, "offer"),
		Furnished: parseBoolFilter(raw, "furnished"),
		Parking:   parseBoolFilter(raw, "parking"),
		SortField: DefaultSortField,
		SortOrder: domain.SortDesc,
	}
	if spec.Limit > MaxPageSize {
		spec.Limit = MaxPageSize
	}

	if t, ok := raw.lookup("type"); ok && t != "" && t != "false" {
		spec.Type = t
	}
	if term, ok := raw.lookup("searchTerm"); ok {
		spec.NameFilter = strings.TrimSpace(term)
	}
	if sort, ok := raw.lookup("sort"); ok && sortableFields[sort] {
		spec.SortField = sort
	}
	if order, ok := raw.lookup("order"); ok {
		switch strings.ToLower(order) {
		case "asc", "ascending", "1":
			spec.SortOrder = domain.SortAsc
		}
	}
	return spec
}

func parsePositiveInt(raw RawQuery, key string, fallback int) int {
	v, ok := raw.lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseNonNegativeInt(raw RawQuery, key string, fallback int) int {
	v, ok := raw.lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func parseBoolFilter(raw RawQuery, key string) *bool {
	v, ok := raw.lookup(key)
	if !ok || v == "false" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return nil
	}
	return &b
}
