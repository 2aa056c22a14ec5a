// Package methodfilter narrows the shipping methods offered at checkout to
// those matching the active restriction mode.
package methodfilter

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"shiprestrict/internal/restriction/models"
)

// maxEditDistance tolerates small renames between the admin-selected method
// and the platform's live list (titles and type slugs drift over time).
const maxEditDistance = 2

// Filter returns the order-preserving subsequence of candidates eligible
// under the given mode. Global mode keeps the list unchanged. Method mode
// keeps candidates matching the configured method: exact id first, then
// normalized type equality, then a fuzzy title/type match against the active
// method's record. When nothing matches, the result is empty rather than the
// unfiltered list: a restriction that fails open is not restricting.
//
// active is the stored descriptor for the configured method id and may be
// nil when the platform no longer offers it; only the exact id match applies
// then.
func Filter(candidates []models.ShippingMethod, modeKey int, active *models.ShippingMethod) []models.ShippingMethod {
	if modeKey == models.GlobalModeKey {
		return candidates
	}

	kept := make([]models.ShippingMethod, 0, len(candidates))
	for _, m := range candidates {
		if matches(m, modeKey, active) {
			kept = append(kept, m)
		}
	}
	return kept
}

func matches(m models.ShippingMethod, modeKey int, active *models.ShippingMethod) bool {
	if m.ID == modeKey {
		return true
	}
	if active == nil {
		return false
	}

	candidateType := normalize(m.Type)
	activeType := normalize(active.Type)
	if candidateType != "" && candidateType == activeType {
		return true
	}

	for _, candidate := range []string{candidateType, normalize(m.Title)} {
		if candidate == "" {
			continue
		}
		for _, target := range []string{activeType, normalize(active.Title)} {
			if target == "" {
				continue
			}
			if levenshtein.ComputeDistance(candidate, target) <= maxEditDistance {
				return true
			}
		}
	}
	return false
}

// normalize lowercases and strips non-alphanumerics so "Flat Rate" and
// "flat_rate" compare equal.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
