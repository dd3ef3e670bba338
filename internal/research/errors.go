package research

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indicates a missing or empty substance name. Handlers
// surface it as a 400.
var ErrInvalidInput = errors.New("api name is required")

// ProviderError carries a failure from the remote model provider. The raw
// detail is only shown to users in debug mode.
type ProviderError struct {
	Path       string
	StatusCode int // 0 for transport failures
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("provider %s returned %d: %s", e.Path, e.StatusCode, e.Body)
}

func (e *ProviderError) Unwrap() error { return e.Err }
