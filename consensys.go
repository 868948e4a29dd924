// Package consensys provides a high-level façade over the debate
// orchestrator, letting applications run a full multi-agent code review with
// one call. Most applications interact with this package by:
//  1. Creating a Consensys via New() with a reviewer panel (optionally
//     overriding the default in-memory store and NoOp logger)
//  2. Calling Review() to run the full four-stage debate, or NewDebate() to
//     drive the rounds one at a time
//
// The façade delegates orchestration to debate.Orchestrator while keeping
// setup ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply the sqlite store and a
// structured logger.
package consensys

import (
	"context"
	"time"

	"github.com/noah-ing/consensys/core"
	"github.com/noah-ing/consensys/debate"
	"github.com/noah-ing/consensys/logging"
	"github.com/noah-ing/consensys/store"
)

// Options configures the Consensys instance.
type Options struct {
	// Store persists sessions and debate artifacts. Defaults to an
	// in-memory store if not provided.
	Store core.SessionStore

	// Logger receives round progress and recovered failures. Defaults to a
	// NoOp logger if nil.
	Logger logging.Logger

	// MaxWorkers bounds per-round fan-out. Zero means one worker per task
	// up to the executor's ceiling.
	MaxWorkers int

	// CallTimeout bounds each reviewer call. Zero disables the bound.
	CallTimeout time.Duration
}

// Consensys is the high-level façade holding a configured reviewer panel.
// One instance can run any number of debates; each debate gets its own
// orchestrator and session.
type Consensys struct {
	panel []core.Reviewer
	opts  Options
}

// New creates a Consensys instance over the given reviewer panel with
// optional overrides.
func New(panel []core.Reviewer, optFns ...func(o *Options)) *Consensys {
	opts := Options{
		Store:       store.NewInMemoryStore(),
		Logger:      logging.NoOpLogger{},
		CallTimeout: 2 * time.Minute,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Consensys{panel: panel, opts: opts}
}

// Store returns the configured session store, for history and replay access.
func (c *Consensys) Store() core.SessionStore { return c.opts.Store }

// NewDebate creates an orchestrator for one debate, for callers that want to
// drive the rounds individually and inspect intermediate artifacts.
func (c *Consensys) NewDebate() *debate.Orchestrator {
	return debate.New(c.panel, func(o *debate.Options) {
		o.Store = c.opts.Store
		o.Logger = c.opts.Logger
		o.MaxWorkers = c.opts.MaxWorkers
		o.CallTimeout = c.opts.CallTimeout
	})
}

// Review runs a complete debate over the given code and returns the
// consensus. Warnings carries the non-fatal failures recovered along the way.
func (c *Consensys) Review(ctx context.Context, code, reviewContext string) (*core.Consensus, []error, error) {
	orch := c.NewDebate()
	result, err := orch.RunFullDebate(ctx, code, reviewContext)
	if err != nil {
		return nil, orch.Warnings(), err
	}
	return result, orch.Warnings(), nil
}
