package models

import (
	"fmt"
	"strings"

	pstrings "shiprestrict/pkg/platform/strings"
)

// MaxCountryCodes bounds list sizes defensively; the ISO country space is a
// few hundred entries.
const MaxCountryCodes = 500

// SaveSettingsRequest carries an operator rule change. Mode is the raw admin
// value ("global" or a numeric shipping method id).
type SaveSettingsRequest struct {
	Mode     string   `json:"mode"`
	Allowed  []string `json:"allowed"`
	Excluded []string `json:"excluded"`
}

// Normalize canonicalizes the request in place: lists are deduped, trimmed
// and uppercased; mode is trimmed. Set semantics on write.
func (r *SaveSettingsRequest) Normalize() {
	if r == nil {
		return
	}
	r.Mode = strings.TrimSpace(r.Mode)
	r.Allowed = pstrings.DedupeAndTrimUpper(r.Allowed)
	r.Excluded = pstrings.DedupeAndTrimUpper(r.Excluded)
}

// Follows validation order: Size -> Required -> Syntax.
func (r *SaveSettingsRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("request is required")
	}

	if len(r.Allowed) > MaxCountryCodes {
		return fmt.Errorf("allowed list must have %d entries or fewer", MaxCountryCodes)
	}
	if len(r.Excluded) > MaxCountryCodes {
		return fmt.Errorf("excluded list must have %d entries or fewer", MaxCountryCodes)
	}

	if r.Mode == "" {
		return fmt.Errorf("mode is required")
	}
	if _, ok := ParseModeKey(r.Mode); !ok {
		return fmt.Errorf("mode must be %q or a positive shipping method id", ModeToken)
	}

	for _, code := range append(append([]string{}, r.Allowed...), r.Excluded...) {
		if len(code) < 2 || len(code) > 3 {
			return fmt.Errorf("country code %q must be a 2- or 3-letter ISO code", code)
		}
	}

	return nil
}

// RuleSet builds the canonical rule set from a normalized, validated request.
func (r *SaveSettingsRequest) RuleSet() *RuleSet {
	key, _ := ParseModeKey(r.Mode)
	return &RuleSet{ModeKey: key, Allowed: r.Allowed, Excluded: r.Excluded}
}

// OrderPayload is the order-created / pre-order hook body sent by the
// commerce platform.
type OrderPayload struct {
	Order struct {
		ID             int64 `json:"id"`
		BillingAddress struct {
			Country string `json:"country"`
		} `json:"billing_address"`
		Customer struct {
			Country string `json:"country"`
		} `json:"customer"`
		ShippingMethodTitle string `json:"shipping_method_title"`
	} `json:"order"`
}

// Snapshot extracts the fields this service consumes.
func (p *OrderPayload) Snapshot() OrderSnapshot {
	return OrderSnapshot{
		ID:                  p.Order.ID,
		BillingCountry:      p.Order.BillingAddress.Country,
		CustomerCountry:     p.Order.Customer.Country,
		ShippingMethodTitle: p.Order.ShippingMethodTitle,
	}
}

// CheckoutPayload is the checkout validation hook body.
type CheckoutPayload struct {
	BillingAddress struct {
		Country string `json:"country"`
	} `json:"billing_address"`
}

// MethodsPayload is the shipping-methods hook body.
type MethodsPayload struct {
	Methods []ShippingMethod `json:"methods"`
}
