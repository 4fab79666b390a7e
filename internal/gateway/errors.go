package gateway

import (
	"errors"
	"fmt"
)

// Kind is the closed set of gateway failure classes.
type Kind int

const (
	// KindTransient covers network, timeout and service failures. Retrying may help.
	KindTransient Kind = iota
	// KindConfiguration means the credential is absent or rejected. Retrying will not help.
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	default:
		return "transient"
	}
}

var ErrMissingCredential = errors.New("API_KEY is missing. Please add 'API_KEY' to your environment variables.")

type Error struct {
	Kind   Kind
	Source Source
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s analysis failed (%s): %v", e.Source, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the user. Configuration problems are shown
// verbatim; transient causes stay in the logs.
func (e *Error) UserMessage() string {
	if e.Kind == KindConfiguration {
		if errors.Is(e.Err, ErrMissingCredential) {
			return ErrMissingCredential.Error()
		}
		return "The AI service rejected the configured API key. Please check the 'API_KEY' setting."
	}
	return fmt.Sprintf("Failed to analyze %s. Please check your connection and try again.", e.Source)
}

// KindOf reports the kind of a gateway error; anything else counts as transient.
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return KindTransient
}

// UserMessage returns the user-facing text for any error returned by a Gateway.
func UserMessage(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.UserMessage()
	}
	return "An unexpected error occurred"
}
