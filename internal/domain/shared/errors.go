package shared

import "errors"

// Error kinds shared by every domain package. Concrete domain errors match
// one of these through their Is method so callers can branch on the kind
// without knowing the concrete type.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrGatewayFailure    = errors.New("external gateway failure")
)

// InvalidRequestError describes a malformed or semantically invalid input.
type InvalidRequestError struct {
	Reason string
}

func (e InvalidRequestError) Error() string {
	return "invalid request: " + e.Reason
}

// Is matches ErrInvalidRequest and any InvalidRequestError.
func (e InvalidRequestError) Is(target error) bool {
	if target == ErrInvalidRequest {
		return true
	}
	_, ok := target.(InvalidRequestError)
	return ok
}

// NewInvalidRequest returns an InvalidRequestError with the given reason.
func NewInvalidRequest(reason string) error {
	return InvalidRequestError{Reason: reason}
}
