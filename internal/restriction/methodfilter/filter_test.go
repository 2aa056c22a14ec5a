package methodfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shiprestrict/internal/restriction/models"
)

var candidates = []models.ShippingMethod{
	{ID: 1, Title: "Flat Rate", Type: "flat_rate", IsEnabled: true},
	{ID: 2, Title: "Free Shipping", Type: "free_shipping", IsEnabled: true},
	{ID: 3, Title: "Local Pickup", Type: "local_pickup", IsEnabled: true},
}

func TestFilter(t *testing.T) {
	t.Run("global mode keeps the list unchanged", func(t *testing.T) {
		got := Filter(candidates, models.GlobalModeKey, nil)
		assert.Equal(t, candidates, got)
	})

	t.Run("method mode keeps only the configured id", func(t *testing.T) {
		active := &models.ShippingMethod{ID: 2, Title: "Free Shipping", Type: "free_shipping"}
		got := Filter(candidates, 2, active)
		assert.Len(t, got, 1)
		assert.Equal(t, 2, got[0].ID)
	})

	t.Run("exact id matches without an active record", func(t *testing.T) {
		got := Filter(candidates, 3, nil)
		assert.Len(t, got, 1)
		assert.Equal(t, 3, got[0].ID)
	})

	t.Run("type match survives an id drift", func(t *testing.T) {
		// Admin configured id 9, which the platform re-created as id 1 with
		// the same type slug.
		active := &models.ShippingMethod{ID: 9, Title: "Flat Rate", Type: "flat_rate"}
		got := Filter(candidates, 9, active)
		assert.Len(t, got, 1)
		assert.Equal(t, 1, got[0].ID)
	})

	t.Run("fuzzy title match tolerates small renames", func(t *testing.T) {
		active := &models.ShippingMethod{ID: 9, Title: "Flat Rates", Type: "flatrate_v2"}
		got := Filter(candidates, 9, active)
		assert.Len(t, got, 1)
		assert.Equal(t, "flat_rate", got[0].Type)
	})

	t.Run("zero matches fail closed", func(t *testing.T) {
		active := &models.ShippingMethod{ID: 7, Title: "Drone Delivery", Type: "drone"}
		got := Filter(candidates, 7, active)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})

	t.Run("order is preserved", func(t *testing.T) {
		both := []models.ShippingMethod{
			{ID: 5, Title: "Flat Rate EU", Type: "flat_rate"},
			{ID: 4, Title: "Flat Rate", Type: "flat_rate"},
		}
		active := &models.ShippingMethod{ID: 4, Title: "Flat Rate", Type: "flat_rate"}
		got := Filter(both, 4, active)
		assert.Equal(t, []int{5, 4}, []int{got[0].ID, got[1].ID})
	})

	t.Run("empty candidate list", func(t *testing.T) {
		assert.Empty(t, Filter(nil, 2, nil))
	})
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "flatrate", normalize("Flat Rate"))
	assert.Equal(t, "flatrate", normalize("flat_rate"))
	assert.Equal(t, "", normalize("---"))
}
