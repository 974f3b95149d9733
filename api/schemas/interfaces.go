// File: api/schemas/interfaces.go
package schemas

import "context"

// VisionBackend is the uniform contract over a vision-model service. A
// backend is stateless between calls: conversation state travels in the
// history argument and the returned session identifier.
type VisionBackend interface {
	// SendVisionRequest submits the transcript plus the current objective and
	// screenshot (the final user turn of history carries the image) and
	// returns the decoded action batch together with the backend-assigned
	// session identifier, which may be empty for backends that do not track
	// sessions server-side.
	SendVisionRequest(ctx context.Context, history []Turn, objective string, sessionID string) (actions []Action, newSessionID string, err error)

	// ListModels enumerates the models available on the backend. Self-hosted
	// backends list local installs; an empty slice with a nil error means the
	// service is reachable but has nothing installed.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// Validate reports whether the named model is usable on this backend.
	Validate(ctx context.Context, model string) (bool, error)
}

// CredentialProvider supplies backend credentials without the core ever
// blocking on UI directly. Implementations may read a settings file, the
// environment, or run their own acquisition flow.
type CredentialProvider interface {
	GetOrAcquire(family Family) (string, error)
}
