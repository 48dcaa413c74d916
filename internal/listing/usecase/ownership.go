package usecase

import (
	"crypto/subtle"

	"github.com/Abdurahmanit/estate-marketplace/internal/listing/domain"
)

// AuthorizeOwner allows the action only when callerID is the listing's owner.
func AuthorizeOwner(callerID string, listing *domain.Listing) error {
	if callerID == "" || listing == nil {
		return domain.ErrUnauthorized
	}
	if !sameUser(callerID, listing.OwnerRef) {
		return domain.ErrUnauthorized
	}
	return nil
}

func sameUser(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
