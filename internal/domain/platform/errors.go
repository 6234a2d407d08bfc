package platform

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPlatformNotConfigured indicates no admin credentials exist for the merchant
	ErrPlatformNotConfigured = errors.New("platform: not configured for merchant")
	// ErrPlatformRequestFailed indicates a transport-level failure against the admin API
	ErrPlatformRequestFailed = errors.New("platform: request failed")
	// ErrPlatformInvalidResponse indicates the admin API returned an unparseable payload
	ErrPlatformInvalidResponse = errors.New("platform: invalid response")
	// ErrResolutionInconsistency indicates the platform reported a resource as
	// existing but a lookup by name could not locate it. This signals a naming
	// or permission inconsistency and is always fatal.
	ErrResolutionInconsistency = errors.New("platform: resource reported as existing but not found by lookup")
)

// UserErrors is the structured validation-error list a platform mutation
// returns in place of a created entity. It is a value the Resource Resolver
// inspects for conflict signatures, not necessarily a terminal failure.
type UserErrors struct {
	Kind     ResourceKind
	Messages []string
}

// Error implements the error interface
func (e *UserErrors) Error() string {
	return fmt.Sprintf("platform: %s creation rejected: %s", e.Kind, strings.Join(e.Messages, "; "))
}

// NewUserErrors creates a UserErrors for the given kind and messages
func NewUserErrors(kind ResourceKind, messages []string) *UserErrors {
	return &UserErrors{Kind: kind, Messages: messages}
}

// AsUserErrors unwraps err into a *UserErrors if it is one
func AsUserErrors(err error) (*UserErrors, bool) {
	var ue *UserErrors
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
