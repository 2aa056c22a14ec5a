// Package methods reads the platform's shipping method descriptors and owns
// the enablement side effect of a settings save: global mode re-enables every
// method, per-method mode leaves only the configured one enabled.
package methods

import (
	"context"

	"shiprestrict/internal/restriction/models"
)

// Store is the shipping method contract. GetByID returns
// sentinel.ErrNotFound (wrapped) for unknown ids — unlike rules, a missing
// method is a fact worth distinguishing, since the admin UI references
// methods by id.
type Store interface {
	List(ctx context.Context) ([]models.ShippingMethod, error)
	GetByID(ctx context.Context, id int) (*models.ShippingMethod, error)
	SyncEnablement(ctx context.Context, modeKey int) error
}
