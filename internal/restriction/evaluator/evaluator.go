// Package evaluator holds the pure restriction decision. It is total over
// its input domain: every (rule set, country) pair yields a definite verdict
// and nothing here touches storage or the network.
package evaluator

import (
	"strings"

	"shiprestrict/internal/restriction/models"
)

// Evaluate decides whether a country passes the given rule set.
//
// Precedence is fixed:
//  1. empty country is treated as unknown and only the exclusion check
//     applies to it (insufficient data is not a rule violation)
//  2. a country on the excluded list is blocked, even if it also appears on
//     the allowed list
//  3. a non-empty allowed list is exhaustive: countries not on it are blocked
//  4. everything else passes
func Evaluate(rs *models.RuleSet, country string) models.Verdict {
	if rs == nil {
		return models.Verdict{Passed: true}
	}

	code := strings.ToUpper(strings.TrimSpace(country))
	if code == "" {
		code = strings.ToUpper(models.UnknownCountry)
	}
	// The placeholder skips the allow-list check: insufficient data is not a
	// rule violation. It can still be excluded by the literal entry.
	unknown := code == strings.ToUpper(models.UnknownCountry)

	if contains(rs.Excluded, code) {
		return models.Verdict{Reason: models.ReasonExcluded}
	}
	if !unknown && len(rs.Allowed) > 0 && !contains(rs.Allowed, code) {
		return models.Verdict{Reason: models.ReasonNotAllowed}
	}
	return models.Verdict{Passed: true}
}

func contains(codes []string, code string) bool {
	for _, c := range codes {
		if strings.EqualFold(c, code) {
			return true
		}
	}
	return false
}
