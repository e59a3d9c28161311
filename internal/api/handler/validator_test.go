package handler_test

import (
	"strings"
	"testing"

	"github.com/roncloudtech/hospital-remittance/internal/api/handler"
)

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	type payload struct {
		PaymentMethod string `json:"payment_method" validate:"required,oneof=bank_transfer cash cheque pos"`
		Reference     string `json:"ref"            validate:"required"`
	}

	err := handler.NewValidator().Validate(payload{PaymentMethod: "barter"})
	if err == nil {
		t.Fatalf("expected validation failure")
	}

	msg := err.Error()
	if !strings.Contains(msg, "payment_method must be one of") {
		t.Fatalf("message should name the json field, got %q", msg)
	}
	if !strings.Contains(msg, "ref is required") {
		t.Fatalf("message should report the missing ref field, got %q", msg)
	}
	if strings.Contains(msg, "PaymentMethod") {
		t.Fatalf("message leaked the Go field name: %q", msg)
	}
}
