package identx

import "fmt"

// Field names used by FieldError. They match the query parameter names of the
// search surface.
const (
	FieldIDNumber            = "idNumber"
	FieldNoticeNumber        = "noticeNumber"
	FieldVehicleRegistration = "vehicleRegistration"
)

// FieldError is a client side validation failure for a single input.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CheckNationalID returns nil when value is an acceptable ID number, otherwise
// the inline message for the first rule it breaks.
func CheckNationalID(value string) *FieldError {
	switch {
	case value == "":
		return &FieldError{FieldIDNumber, "ID number is required"}
	case len(value) != NationalIDLength:
		return &FieldError{FieldIDNumber, "ID number must be 13 digits"}
	case !allDigits(value):
		return &FieldError{FieldIDNumber, "ID number must contain only digits"}
	case !ValidateNationalID(value):
		return &FieldError{FieldIDNumber, "Invalid South African ID number"}
	}
	return nil
}

// CheckNoticeNumber is the notice number counterpart of CheckNationalID.
func CheckNoticeNumber(value string) *FieldError {
	switch {
	case value == "":
		return &FieldError{FieldNoticeNumber, "Notice number is required"}
	case len(value) < 8:
		return &FieldError{FieldNoticeNumber, "Notice number seems too short"}
	case !ValidateNoticeNumber(value):
		return &FieldError{FieldNoticeNumber, "Notice number format invalid (e.g., CT2024001234)"}
	}
	return nil
}

// CheckVehicleRegistration is the registration counterpart of CheckNationalID.
func CheckVehicleRegistration(value string) *FieldError {
	switch {
	case value == "":
		return &FieldError{FieldVehicleRegistration, "Vehicle registration is required"}
	case !ValidateVehicleRegistration(value):
		return &FieldError{FieldVehicleRegistration, "Invalid vehicle registration format"}
	}
	return nil
}
