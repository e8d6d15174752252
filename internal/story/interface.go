package story

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned before any network call when the selected
// provider has no credential configured.
var ErrMissingAPIKey = errors.New("story: missing api key")

// Provider defines the contract for streaming story generation.
// This interface allows for swapping different text-generation services.
// Implementations must call emit once per text fragment in arrival order;
// the full story is the concatenation of all fragments.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// StreamStory generates a narrative for the request, emitting fragments
	// as the service produces them. Service errors are returned to the
	// caller, not swallowed.
	StreamStory(ctx context.Context, req Request, emit func(fragment string)) error
}
