package handler

import "github.com/roncloudtech/hospital-remittance/internal/core/domain"

// --- Request / Response types ---

type submitRemittanceRequest struct {
	HospitalID      string  `json:"hospital_id"      validate:"required"`
	Amount          float64 `json:"amount"           validate:"required,gt=0"`
	Description     string  `json:"description"`
	PaymentMethod   string  `json:"payment_method"   validate:"required,oneof=bank_transfer cash cheque pos"`
	Reference       string  `json:"ref"              validate:"required"`
	TransactionDate string  `json:"transaction_date" validate:"required"`
}

// summariesResponse mirrors the envelope the portal frontend expects from
// the summary endpoints.
type summariesResponse struct {
	Success bool                      `json:"success"`
	Data    []*domain.HospitalSummary `json:"data"`
}
