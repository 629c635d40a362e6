package common

// Reason identifies which input rule a ValidationError violated.
type Reason string

const (
	ReasonInvalidEmail             Reason = "InvalidEmail"
	ReasonPasswordTooShort         Reason = "PasswordTooShort"
	ReasonPasswordMissingUppercase Reason = "PasswordMissingUppercase"
	ReasonPasswordMissingLowercase Reason = "PasswordMissingLowercase"
	ReasonPasswordTooLong          Reason = "PasswordTooLong"
	ReasonFirstNameRequired        Reason = "FirstNameRequired"
	ReasonFirstNameTooLong         Reason = "FirstNameTooLong"
	ReasonLastNameRequired         Reason = "LastNameRequired"
	ReasonLastNameTooLong          Reason = "LastNameTooLong"
)

// ValidationError reports a rejected input together with the rule it broke.
// The message is safe to show to callers; it never contains the input itself.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for the given reason.
func NewValidationError(reason Reason, message string) *ValidationError {
	return &ValidationError{Reason: reason, Message: message}
}
