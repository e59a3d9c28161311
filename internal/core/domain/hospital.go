package domain

import (
	"errors"
	"regexp"
	"time"
)

var (
	ErrHospitalNotFound  = errors.New("hospital not found")
	ErrHospitalExists    = errors.New("hospital already exists")
	ErrInvalidHospitalID = errors.New("invalid hospital id format")
)

// hospitalIDPattern matches the facility code format, e.g. "NAH-002341".
var hospitalIDPattern = regexp.MustCompile(`^[A-Z]{3}-\d{6}$`)

// ValidHospitalID reports whether the given facility code is well formed.
func ValidHospitalID(id string) bool {
	return hospitalIDPattern.MatchString(id)
}

// Hospital is a facility that remitters pay funds against. Hospitals are
// soft-deleted so historical remittances keep resolving.
type Hospital struct {
	ID               string    `json:"id"`
	HospitalID       string    `json:"hospital_id"`
	Name             string    `json:"hospital_name"`
	MilitaryDivision string    `json:"military_division"`
	Address          string    `json:"address"`
	PhoneNumber      string    `json:"phone_number"`
	RemitterID       string    `json:"hospital_remitter"`
	MonthlyTarget    float64   `json:"monthly_remittance_target"`
	Deleted          bool      `json:"deleted"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
