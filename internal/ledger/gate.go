package ledger

import "github.com/namdoan/escrowd/internal/core/domain"

// authorizeOrganizer is the identity gate for organizer-only operations.
// It is stateless: authority is read off the record itself.
func authorizeOrganizer(rec *domain.EventRecord, caller domain.Identity) error {
	if caller != rec.Organizer {
		return domain.ErrNotAuthorized
	}
	return nil
}
