package models

import (
	"strings"
	"time"
)

// SettingsResponse is the admin read shape for one mode's rule set.
type SettingsResponse struct {
	Mode     string   `json:"mode"`
	Allowed  []string `json:"allowed"`
	Excluded []string `json:"excluded"`
}

// SaveSettingsResponse acknowledges a persisted save. Warnings carry
// non-fatal findings such as codes present in both lists.
type SaveSettingsResponse struct {
	Mode     string   `json:"mode"`
	Warnings []string `json:"warnings,omitempty"`
}

// LogEntryResponse is one row of the audit report page, shaped for display
// and CSV export by the presentation layer.
type LogEntryResponse struct {
	OrderID  int64  `json:"order_id"`
	Country  string `json:"country"`
	Method   string `json:"method"`
	Allowed  string `json:"allowed"`
	Excluded string `json:"excluded"`
	Status   string `json:"status"`
	Date     string `json:"date"`
}

// NewLogEntryResponse flattens an audit entry into its report row.
func NewLogEntryResponse(e *AuditEntry) LogEntryResponse {
	return LogEntryResponse{
		OrderID:  e.OrderID,
		Country:  e.Country,
		Method:   e.MethodLabel,
		Allowed:  strings.Join(e.Allowed, ", "),
		Excluded: strings.Join(e.Excluded, ", "),
		Status:   e.Status,
		Date:     e.CreatedAt.Format(time.RFC3339),
	}
}

// CheckoutValidationResponse is the error-map contribution of the checkout
// validation hook. The map is empty when the country passes.
type CheckoutValidationResponse struct {
	Errors map[string]string `json:"errors"`
}

// MethodsResponse is the filtered shipping method list returned to the
// shipping-methods hook.
type MethodsResponse struct {
	Methods []ShippingMethod `json:"methods"`
}
