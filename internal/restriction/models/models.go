package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GlobalModeKey is the canonical mode key for the global rule set. Positive
// keys address the rule set of a single shipping method.
const GlobalModeKey = 0

// ModeToken is the admin-facing spelling of the global mode.
const ModeToken = "global"

// UnknownCountry is the placeholder recorded when an order carries no usable
// country. It is never blocked unless an operator literally configures it.
const UnknownCountry = "Unknown"

// ParseModeKey canonicalizes an admin-submitted mode to its integer key.
// Accepts the "global" token (case-insensitive) and positive numeric ids;
// anything else is a validation failure.
func ParseModeKey(raw string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == ModeToken {
		return GlobalModeKey, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// NormalizeModeKey is the lenient variant used on the read path. The stored
// mode may be the global token, empty (never configured), or a numeric id;
// any malformed value resolves to global so checkout never fails on a bad
// setting.
func NormalizeModeKey(raw string) int {
	key, ok := ParseModeKey(raw)
	if !ok {
		return GlobalModeKey
	}
	return key
}

// ModeLabel renders a mode key the way the audit log displays it.
func ModeLabel(key int) string {
	if key == GlobalModeKey {
		return strings.ToUpper(ModeToken)
	}
	return "Method ID: " + strconv.Itoa(key)
}

// RuleSet is the effective restriction configuration for one mode.
// An empty Allowed list means "no allow-list restriction"; a non-empty list
// is exhaustive. Excluded always wins over Allowed.
type RuleSet struct {
	ModeKey  int      `json:"mode_key"`
	Allowed  []string `json:"allowed"`
	Excluded []string `json:"excluded"`
}

// EmptyRuleSet returns the "no rules configured" state for a mode key.
func EmptyRuleSet(modeKey int) *RuleSet {
	return &RuleSet{ModeKey: modeKey, Allowed: []string{}, Excluded: []string{}}
}

// Conflicts returns the codes present in both lists. Evaluation lets the
// exclusion win; saves surface these as warnings.
func (rs *RuleSet) Conflicts() []string {
	if len(rs.Allowed) == 0 || len(rs.Excluded) == 0 {
		return nil
	}
	excluded := make(map[string]struct{}, len(rs.Excluded))
	for _, c := range rs.Excluded {
		excluded[c] = struct{}{}
	}
	var both []string
	for _, c := range rs.Allowed {
		if _, ok := excluded[c]; ok {
			both = append(both, c)
		}
	}
	return both
}

// RuleRecord is the persisted form of a RuleSet: one row per mode key.
// Rows are upserted in place and never deleted; stale records for methods no
// longer offered are tolerated.
type RuleRecord struct {
	MethodID          int       `json:"method_id"` // 0 = global
	AllowedCountries  []string  `json:"allowed_countries"`
	ExcludedCountries []string  `json:"excluded_countries"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RuleSet converts the stored row to its effective form.
func (r *RuleRecord) RuleSet() *RuleSet {
	return &RuleSet{
		ModeKey:  r.MethodID,
		Allowed:  append([]string{}, r.AllowedCountries...),
		Excluded: append([]string{}, r.ExcludedCountries...),
	}
}

// BlockReason distinguishes why a country was blocked.
type BlockReason string

const (
	ReasonExcluded   BlockReason = "excluded"
	ReasonNotAllowed BlockReason = "not_allowed"
)

// Verdict is the outcome of evaluating a country against a rule set.
type Verdict struct {
	Passed bool        `json:"passed"`
	Reason BlockReason `json:"reason,omitempty"`
}

// Status renders the verdict the way the audit log and report display it.
func (v Verdict) Status() string {
	switch {
	case v.Passed:
		return "Passed"
	case v.Reason == ReasonExcluded:
		return "Flagged: Excluded"
	default:
		return "Flagged: Unauthorized"
	}
}

// ShippingMethod describes a platform shipping method. The platform owns
// these; this service reads id/type/title and toggles IsEnabled when the
// restriction mode changes.
type ShippingMethod struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	IsEnabled bool   `json:"is_enabled"`
}

// OrderSnapshot is the slice of an order this service consumes at
// order-creation time. Only ID is required; everything else degrades to a
// placeholder.
type OrderSnapshot struct {
	ID                  int64  `json:"id"`
	BillingCountry      string `json:"billing_country"`
	CustomerCountry     string `json:"customer_country"`
	ShippingMethodTitle string `json:"shipping_method_title"`
}

// Country resolves the order's country with the documented fallback chain:
// billing address, then customer profile, then the Unknown placeholder.
func (o OrderSnapshot) Country() string {
	if c := strings.ToUpper(strings.TrimSpace(o.BillingCountry)); c != "" {
		return c
	}
	if c := strings.ToUpper(strings.TrimSpace(o.CustomerCountry)); c != "" {
		return c
	}
	return UnknownCountry
}

// AuditEntry is the immutable per-order record of a restriction decision.
// List and mode fields are snapshots taken at evaluation time; later rule
// edits must not change historical entries.
type AuditEntry struct {
	ID          uuid.UUID `json:"id"`
	OrderID     int64     `json:"order_id"`
	Country     string    `json:"country"`
	Allowed     []string  `json:"allowed"`
	Excluded    []string  `json:"excluded"`
	ModeKey     int       `json:"mode_key"`
	MethodLabel string    `json:"method_label"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
