// Package debate drives the four-stage review debate: initial reviews,
// peer rebuttals, voting, and consensus. One Orchestrator handles exactly
// one debate; restarting means creating a new Orchestrator and session.
package debate

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/noah-ing/consensys/consensus"
	"github.com/noah-ing/consensys/core"
	"github.com/noah-ing/consensys/executor"
	"github.com/noah-ing/consensys/logging"
)

// Options hold dependency and configuration overrides passed to New.
type Options struct {
	// Store persists artifacts as rounds settle. A nil store runs the
	// debate purely in memory.
	Store core.SessionStore
	// Logger receives round progress and recovered failures.
	Logger logging.Logger
	// MaxWorkers bounds per-round fan-out. Zero means one worker per task
	// up to the executor's ceiling.
	MaxWorkers int
	// CallTimeout bounds each reviewer call. A timeout is a capability
	// failure for that task only. Zero disables the bound.
	CallTimeout time.Duration
}

// Orchestrator coordinates a panel of reviewers through the round state
// machine. Rounds are strictly sequential; within a round, reviewer calls
// fan out concurrently and workers only return values. The in-memory result
// collections are mutated exclusively by the coordinating goroutine after
// each round's join, so the aggregation path needs no locks of its own.
type Orchestrator struct {
	panel       []core.Reviewer
	store       core.SessionStore
	logger      logging.Logger
	maxWorkers  int
	callTimeout time.Duration

	mu        sync.Mutex
	state     core.State
	session   *core.Session
	reviews   []core.Review
	responses []core.Response
	votes     []core.Vote
	result    *core.Consensus
	warnings  []error
}

// New constructs an Orchestrator for one debate over the given panel.
func New(panel []core.Reviewer, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Logger:      logging.NoOpLogger{},
		CallTimeout: 2 * time.Minute,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Orchestrator{
		panel:       panel,
		store:       opts.Store,
		logger:      opts.Logger,
		maxWorkers:  opts.MaxWorkers,
		callTimeout: opts.CallTimeout,
	}
}

// Session returns the session record, or nil before Round 1 has started.
func (o *Orchestrator) Session() *core.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// State returns the debate's current position in the state machine.
func (o *Orchestrator) State() core.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Reviews returns a copy of the accumulated Round 1 results.
func (o *Orchestrator) Reviews() []core.Review {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]core.Review(nil), o.reviews...)
}

// Responses returns a copy of the accumulated Round 2 results.
func (o *Orchestrator) Responses() []core.Response {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]core.Response(nil), o.responses...)
}

// Votes returns a copy of the accumulated Round 3 results.
func (o *Orchestrator) Votes() []core.Vote {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]core.Vote(nil), o.votes...)
}

// Warnings returns the non-fatal failures recovered so far: capability
// failures excluded from rounds and persistence failures the debate
// continued past.
func (o *Orchestrator) Warnings() []error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]error(nil), o.warnings...)
}

// Consensus returns the built consensus, or nil before CONSENSUS_BUILT.
func (o *Orchestrator) Consensus() *core.Consensus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// RunFullDebate drives all four stages in sequence and returns the consensus.
func (o *Orchestrator) RunFullDebate(ctx context.Context, code, reviewContext string) (*core.Consensus, error) {
	if _, err := o.StartReview(ctx, code, reviewContext); err != nil {
		return nil, err
	}
	if _, err := o.RunResponses(ctx); err != nil {
		return nil, err
	}
	if _, err := o.RunVoting(ctx); err != nil {
		return nil, err
	}
	return o.BuildConsensus()
}

// StartReview runs Round 1: every panel member reviews the code in parallel.
// It creates the session, persists each successful review in panel order,
// and transitions to REVIEWED. A reviewer failure shrinks the result set but
// never aborts the round; an empty panel is fatal.
func (o *Orchestrator) StartReview(ctx context.Context, code, reviewContext string) ([]core.Review, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != core.StateCreated {
		return nil, &core.SequenceError{Stage: "review", Reason: fmt.Sprintf("debate already in state %s", o.state)}
	}
	if len(o.panel) == 0 {
		return nil, core.ErrEmptyPanel
	}
	if err := validatePanel(o.panel); err != nil {
		return nil, err
	}

	session := core.NewSession(code, reviewContext)
	o.session = session
	o.persist("create_session", func() error { return o.store.CreateSession(session) })

	o.logger.Info("round 1: initial reviews", "session_id", session.ID, "panel_size", len(o.panel))

	tasks := make([]func(context.Context) (*core.Review, error), len(o.panel))
	for i, reviewer := range o.panel {
		r := reviewer
		tasks[i] = func(taskCtx context.Context) (*core.Review, error) {
			return r.Review(taskCtx, code, reviewContext)
		}
	}
	results := fanOut(ctx, tasks, o.callTimeout, o.maxWorkers)

	// Results are handled in panel order, not completion order, which is
	// what keeps persistence and replay deterministic despite concurrent
	// execution.
	o.reviews = o.reviews[:0]
	for i, res := range results {
		reviewer := o.panel[i]
		review, err := settleReview(reviewer, res)
		if err != nil {
			o.recordWarning(err)
			continue
		}
		review.SessionID = session.ID
		o.persist("save_review", func() error { return o.store.SaveReview(session.ID, review) })
		o.reviews = append(o.reviews, review)
	}

	o.state = core.StateReviewed
	o.logger.Info("round 1 complete", "session_id", session.ID, "reviews", len(o.reviews), "failures", len(o.panel)-len(o.reviews))
	return append([]core.Review(nil), o.reviews...), nil
}

// RunResponses runs Round 2: every reviewer whose review survived Round 1
// rebuts every other surviving review.
// Successful results are sorted by (agent, respondingTo) before
// persistence and accumulation. Requires at least one review; a
// single-reviewer panel legitimately produces zero responses.
func (o *Orchestrator) RunResponses(ctx context.Context) ([]core.Response, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != core.StateReviewed {
		return nil, &core.SequenceError{Stage: "respond", Reason: fmt.Sprintf("expected state REVIEWED, have %s", o.state)}
	}
	if len(o.reviews) == 0 {
		return nil, &core.SequenceError{Stage: "respond", Reason: "round 1 produced no reviews"}
	}

	session := o.session
	o.logger.Info("round 2: responses", "session_id", session.ID, "reviews", len(o.reviews))

	// Every ordered (reviewer, peer review) pair, self excluded. Only
	// reviewers whose own review survived Round 1 participate: a failed
	// reviewer has no standing in the debate, so k surviving reviews yield
	// k*(k-1) pairs.
	byName := make(map[string]core.Reviewer, len(o.panel))
	for _, reviewer := range o.panel {
		byName[reviewer.Name()] = reviewer
	}
	type pair struct {
		reviewer core.Reviewer
		peer     core.Review
	}
	var pairs []pair
	for _, own := range o.reviews {
		reviewer := byName[own.AgentName]
		for _, peer := range o.reviews {
			if peer.AgentName == own.AgentName {
				continue
			}
			pairs = append(pairs, pair{reviewer: reviewer, peer: peer})
		}
	}

	code := session.Code
	tasks := make([]func(context.Context) (*core.Response, error), len(pairs))
	for i, p := range pairs {
		p := p
		tasks[i] = func(taskCtx context.Context) (*core.Response, error) {
			return p.reviewer.Respond(taskCtx, p.peer, code)
		}
	}
	results := fanOut(ctx, tasks, o.callTimeout, o.maxWorkers)

	var settled []core.Response
	for i, res := range results {
		p := pairs[i]
		resp, err := settleResponse(p.reviewer, p.peer.AgentName, res)
		if err != nil {
			o.recordWarning(err)
			continue
		}
		resp.SessionID = session.ID
		settled = append(settled, resp)
	}

	sort.Slice(settled, func(i, j int) bool {
		if settled[i].AgentName != settled[j].AgentName {
			return settled[i].AgentName < settled[j].AgentName
		}
		return settled[i].RespondingTo < settled[j].RespondingTo
	})

	o.responses = o.responses[:0]
	for _, resp := range settled {
		resp := resp
		o.persist("save_response", func() error { return o.store.SaveResponse(session.ID, resp) })
		o.responses = append(o.responses, resp)
	}

	o.state = core.StateResponded
	o.logger.Info("round 2 complete", "session_id", session.ID, "responses", len(o.responses), "failures", len(pairs)-len(o.responses))
	return append([]core.Response(nil), o.responses...), nil
}

// RunVoting runs Round 3: every panel member sees the entire review and
// response context and casts exactly one vote. Successful votes are sorted
// by agent name before persistence and accumulation.
func (o *Orchestrator) RunVoting(ctx context.Context) ([]core.Vote, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != core.StateResponded {
		return nil, &core.SequenceError{Stage: "vote", Reason: fmt.Sprintf("expected state RESPONDED, have %s", o.state)}
	}
	if len(o.reviews) == 0 {
		return nil, &core.SequenceError{Stage: "vote", Reason: "round 1 produced no reviews"}
	}

	session := o.session
	o.logger.Info("round 3: voting", "session_id", session.ID, "panel_size", len(o.panel))

	// Workers receive defensive copies; they must never share slices with
	// the coordinating goroutine.
	code := session.Code
	reviews := append([]core.Review(nil), o.reviews...)
	responses := append([]core.Response(nil), o.responses...)

	tasks := make([]func(context.Context) (*core.Vote, error), len(o.panel))
	for i, reviewer := range o.panel {
		r := reviewer
		tasks[i] = func(taskCtx context.Context) (*core.Vote, error) {
			return r.Vote(taskCtx, code, reviews, responses)
		}
	}
	results := fanOut(ctx, tasks, o.callTimeout, o.maxWorkers)

	var settled []core.Vote
	for i, res := range results {
		reviewer := o.panel[i]
		vote, err := settleVote(reviewer, res)
		if err != nil {
			o.recordWarning(err)
			continue
		}
		vote.SessionID = session.ID
		settled = append(settled, vote)
	}

	sort.Slice(settled, func(i, j int) bool { return settled[i].AgentName < settled[j].AgentName })

	o.votes = o.votes[:0]
	for _, vote := range settled {
		vote := vote
		o.persist("save_vote", func() error { return o.store.SaveVote(session.ID, vote) })
		o.votes = append(o.votes, vote)
	}

	o.state = core.StateVoted
	o.logger.Info("round 3 complete", "session_id", session.ID, "votes", len(o.votes), "failures", len(o.panel)-len(o.votes))
	return append([]core.Vote(nil), o.votes...), nil
}

// BuildConsensus aggregates the vote and review sets into the terminal
// consensus artifact, persists it once, and records the final decision on
// the session. Requires at least one vote.
func (o *Orchestrator) BuildConsensus() (*core.Consensus, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != core.StateVoted {
		return nil, &core.SequenceError{Stage: "consensus", Reason: fmt.Sprintf("expected state VOTED, have %s", o.state)}
	}

	session := o.session
	result, err := consensus.Build(session, o.reviews, o.votes)
	if err != nil {
		return nil, err
	}

	o.persist("save_consensus", func() error { return o.store.SaveConsensus(*result) })

	decision := result.FinalDecision
	session.FinalDecision = &decision
	o.result = result
	o.state = core.StateConsensusBuilt

	o.logger.Info("consensus built", "session_id", session.ID,
		"decision", string(decision),
		"approve", result.Count(core.VoteApprove),
		"reject", result.Count(core.VoteReject),
		"abstain", result.Count(core.VoteAbstain),
		"key_issues", len(result.KeyIssues))
	return result, nil
}

// fanOut dispatches tasks through the round executor with the per-call
// timeout applied at the capability boundary.
func fanOut[T any](ctx context.Context, tasks []func(context.Context) (T, error), timeout time.Duration, maxWorkers int) []executor.Result[T] {
	wrapped := make([]func(context.Context) (T, error), len(tasks))
	for i, task := range tasks {
		task := task
		wrapped[i] = func(taskCtx context.Context) (T, error) {
			if timeout > 0 {
				var cancel context.CancelFunc
				taskCtx, cancel = context.WithTimeout(taskCtx, timeout)
				defer cancel()
			}
			return task(taskCtx)
		}
	}
	return executor.RunAll(ctx, wrapped, func(opts *executor.Options) {
		opts.MaxWorkers = maxWorkers
	})
}

// settleReview converts one executor result into a validated review or a
// capability error. A nil or malformed artifact counts as a capability
// failure for that task alone.
func settleReview(reviewer core.Reviewer, res executor.Result[*core.Review]) (core.Review, error) {
	if res.Err != nil {
		return core.Review{}, &core.CapabilityError{Agent: reviewer.Name(), Op: "review", Err: res.Err}
	}
	review := res.Value
	if review == nil {
		return core.Review{}, &core.CapabilityError{Agent: reviewer.Name(), Op: "review", Err: fmt.Errorf("capability returned no artifact")}
	}
	if err := review.Validate(); err != nil {
		return core.Review{}, &core.CapabilityError{Agent: reviewer.Name(), Op: "review", Err: err}
	}
	if review.AgentName != reviewer.Name() {
		return core.Review{}, &core.CapabilityError{Agent: reviewer.Name(), Op: "review", Err: fmt.Errorf("artifact claims agent %q", review.AgentName)}
	}
	return *review, nil
}

func settleResponse(reviewer core.Reviewer, peer string, res executor.Result[*core.Response]) (core.Response, error) {
	if res.Err != nil {
		return core.Response{}, &core.CapabilityError{Agent: reviewer.Name(), Op: "respond", Err: res.Err}
	}
	resp := res.Value
	if resp == nil {
		return core.Response{}, &core.CapabilityError{Agent: reviewer.Name(), Op: "respond", Err: fmt.Errorf("capability returned no artifact")}
	}
	if err := resp.Validate(); err != nil {
		return core.Response{}, &core.CapabilityError{Agent: reviewer.Name(), Op: "respond", Err: err}
	}
	if resp.AgentName != reviewer.Name() {
		return core.Response{}, &core.CapabilityError{Agent: reviewer.Name(), Op: "respond", Err: fmt.Errorf("artifact claims agent %q", resp.AgentName)}
	}
	if resp.RespondingTo != peer {
		return core.Response{}, &core.CapabilityError{Agent: reviewer.Name(), Op: "respond", Err: fmt.Errorf("response targets %q, expected %q", resp.RespondingTo, peer)}
	}
	return *resp, nil
}

func settleVote(reviewer core.Reviewer, res executor.Result[*core.Vote]) (core.Vote, error) {
	if res.Err != nil {
		return core.Vote{}, &core.CapabilityError{Agent: reviewer.Name(), Op: "vote", Err: res.Err}
	}
	vote := res.Value
	if vote == nil {
		return core.Vote{}, &core.CapabilityError{Agent: reviewer.Name(), Op: "vote", Err: fmt.Errorf("capability returned no artifact")}
	}
	if err := vote.Validate(); err != nil {
		return core.Vote{}, &core.CapabilityError{Agent: reviewer.Name(), Op: "vote", Err: err}
	}
	if vote.AgentName != reviewer.Name() {
		return core.Vote{}, &core.CapabilityError{Agent: reviewer.Name(), Op: "vote", Err: fmt.Errorf("artifact claims agent %q", vote.AgentName)}
	}
	return *vote, nil
}

// persist runs a store call, downgrading any failure to a logged warning.
// In-memory results stay valid regardless of durability.
func (o *Orchestrator) persist(op string, fn func() error) {
	if o.store == nil {
		return
	}
	if err := fn(); err != nil {
		perr := &core.PersistenceError{Op: op, SessionID: o.sessionID(), Err: err}
		o.warnings = append(o.warnings, perr)
		o.logger.Warn("persistence failure", "op", op, "session_id", o.sessionID(), "error", err.Error())
	}
}

func (o *Orchestrator) sessionID() string {
	if o.session == nil {
		return ""
	}
	return o.session.ID
}

func (o *Orchestrator) recordWarning(err error) {
	o.warnings = append(o.warnings, err)
	o.logger.Warn("reviewer task excluded from round", "error", err.Error())
}

// validatePanel enforces panel-unique reviewer names.
func validatePanel(panel []core.Reviewer) error {
	seen := make(map[string]bool, len(panel))
	for _, r := range panel {
		name := r.Name()
		if name == "" {
			return &core.SequenceError{Stage: "review", Reason: "panel contains a reviewer with an empty name"}
		}
		if seen[name] {
			return &core.SequenceError{Stage: "review", Reason: fmt.Sprintf("duplicate reviewer name %q in panel", name)}
		}
		seen[name] = true
	}
	return nil
}
