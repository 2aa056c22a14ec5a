// Package rules persists the restriction configuration, one record per mode
// key (0 = global, otherwise a shipping method id).
package rules

import (
	"context"

	"shiprestrict/internal/restriction/models"
)

// Store is the rule persistence contract. A lookup miss is not an error:
// "no rules configured for this mode" is a common, valid state, so Get
// returns an empty rule set for unknown keys. Put has upsert semantics and
// must be safe under concurrent saves for the same key.
type Store interface {
	Get(ctx context.Context, modeKey int) (*models.RuleSet, error)
	Put(ctx context.Context, modeKey int, rs *models.RuleSet) error
}
