package core

import "context"

// Reviewer is the capability boundary for a single panel member. The
// orchestrator treats implementations as opaque: they may be slow, fail, or
// return malformed artifacts, and retry/backoff for transient faults is their
// responsibility. The orchestrator only distinguishes success from failure.
//
// Implementations must respect context cancellation; the orchestrator applies
// a per-call timeout at this boundary.
type Reviewer interface {
	// Name returns the panel-unique agent name stamped on every artifact
	// this reviewer produces.
	Name() string

	// Review examines code (with optional free-text context) and returns
	// an initial review.
	Review(ctx context.Context, code, reviewContext string) (*Review, error)

	// Respond produces a rebuttal to a peer's review of the same code.
	Respond(ctx context.Context, peer Review, code string) (*Response, error)

	// Vote casts a final decision given the complete review and response
	// sets from the debate.
	Vote(ctx context.Context, code string, reviews []Review, responses []Response) (*Vote, error)
}
