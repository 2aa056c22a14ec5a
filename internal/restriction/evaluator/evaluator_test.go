package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shiprestrict/internal/restriction/models"
)

func ruleSet(allowed, excluded []string) *models.RuleSet {
	return &models.RuleSet{ModeKey: models.GlobalModeKey, Allowed: allowed, Excluded: excluded}
}

func TestEvaluate(t *testing.T) {
	t.Run("empty rules pass everything", func(t *testing.T) {
		v := Evaluate(ruleSet(nil, nil), "US")
		assert.True(t, v.Passed)
		assert.Equal(t, "Passed", v.Status())
	})

	t.Run("excluded country is blocked", func(t *testing.T) {
		rs := ruleSet(nil, []string{"CA"})
		v := Evaluate(rs, "CA")
		assert.False(t, v.Passed)
		assert.Equal(t, models.ReasonExcluded, v.Reason)

		assert.True(t, Evaluate(rs, "US").Passed)
	})

	t.Run("non-empty allow list is exhaustive", func(t *testing.T) {
		rs := ruleSet([]string{"US", "GB"}, nil)
		v := Evaluate(rs, "DE")
		assert.False(t, v.Passed)
		assert.Equal(t, models.ReasonNotAllowed, v.Reason)
		assert.Equal(t, "Flagged: Unauthorized", v.Status())

		assert.True(t, Evaluate(rs, "US").Passed)
	})

	t.Run("exclusion wins over allow list", func(t *testing.T) {
		rs := ruleSet([]string{"US"}, []string{"US"})
		v := Evaluate(rs, "US")
		assert.False(t, v.Passed)
		assert.Equal(t, models.ReasonExcluded, v.Reason)
		assert.Equal(t, "Flagged: Excluded", v.Status())
	})

	t.Run("country is trimmed and uppercased", func(t *testing.T) {
		rs := ruleSet(nil, []string{"CA"})
		assert.False(t, Evaluate(rs, "  ca ").Passed)
	})

	t.Run("empty country never fails the allow list", func(t *testing.T) {
		rs := ruleSet([]string{"US"}, nil)
		assert.True(t, Evaluate(rs, "").Passed)
		assert.True(t, Evaluate(rs, "   ").Passed)
		assert.True(t, Evaluate(rs, models.UnknownCountry).Passed,
			"the audit fallback placeholder gets the same leniency")
	})

	t.Run("empty country can still be excluded by the literal placeholder", func(t *testing.T) {
		rs := ruleSet(nil, []string{"UNKNOWN"})
		v := Evaluate(rs, "")
		assert.False(t, v.Passed)
		assert.Equal(t, models.ReasonExcluded, v.Reason)
	})

	t.Run("nil rule set passes", func(t *testing.T) {
		assert.True(t, Evaluate(nil, "DE").Passed)
	})
}
