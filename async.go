// This file provides asynchronous problem submission.  Functions
// related to synchronous execution are in conn.go and solver.go.

package composites

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// A SubmittedState represents the state of an asynchronously submitted problem.
type SubmittedState int

// These are the values a SubmittedState can accept.
const (
	StateSubmitting SubmittedState = iota // Problem is still being submitted
	StateSubmitted                        // Problem has been submitted but isn't done yet
	StateDone                             // Problem is done (completed, failed, or canceled)
)

// A RemoteStatus represents the status of a problem as reported by the
// solver.
type RemoteStatus int

// These are the values a RemoteStatus can accept.
const (
	StatusUnknown    RemoteStatus = iota // No response yet (still submitting)
	StatusPending                        // Problem is waiting in a queue
	StatusInProgress                     // Problem is being solved (or will be solved shortly)
	StatusCompleted                      // Solving succeeded
	StatusFailed                         // Solving failed
	StatusCanceled                       // Problem cancelled by user
)

// A ProblemStatus represents the status of an asynchronously submitted
// problem.
type ProblemStatus struct {
	ID           string         // Problem ID
	TimeReceived time.Time      // Time at which the solver received the problem
	TimeSolved   time.Time      // Time at which the problem was completed
	State        SubmittedState // State of the problem as seen by the client
	RemoteStatus RemoteStatus   // Status of the problem as reported by the solver
	Error        error          // Error when in a failed state
}

// A SubmittedProblem represents a problem submitted asynchronously to a
// sampler.
type SubmittedProblem struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}

	mu           sync.Mutex
	status       RemoteStatus
	result       SampleSet
	err          error
	timeReceived time.Time
	timeSolved   time.Time
}

// AsyncSample submits a problem to a sampler but does not wait for it
// to complete.
func AsyncSample(s Sampler, p Problem, pt ProblemType, sp *SolverParameters) (*SubmittedProblem, error) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &SubmittedProblem{
		id:           uuid.NewString(),
		cancel:       cancel,
		done:         make(chan struct{}),
		status:       StatusPending,
		timeReceived: time.Now(),
	}
	go sub.run(ctx, s, p, pt, sp)
	return sub, nil
}

// AsyncSample submits a problem to the solver but does not wait for it
// to complete.
func (s *Solver) AsyncSample(p Problem, pt ProblemType, sp *SolverParameters) (*SubmittedProblem, error) {
	return AsyncSample(s, p, pt, sp)
}

// AsyncSolveIsing submits an Ising-model problem to a solver but does
// not wait for it to complete.
func (s *Solver) AsyncSolveIsing(p Problem, sp *SolverParameters) (*SubmittedProblem, error) {
	return AsyncSample(s, p, ProblemTypeIsing, sp)
}

// AsyncSolveQubo submits a QUBO problem to a solver but does not wait
// for it to complete.
func (s *Solver) AsyncSolveQubo(p Problem, sp *SolverParameters) (*SubmittedProblem, error) {
	return AsyncSample(s, p, ProblemTypeQubo, sp)
}

// run executes the submitted problem and records its outcome.
func (sub *SubmittedProblem) run(ctx context.Context, s Sampler, p Problem, pt ProblemType, sp *SolverParameters) {
	defer close(sub.done)

	// Honor a cancellation that arrived before solving began.
	select {
	case <-ctx.Done():
		sub.mu.Lock()
		sub.status = StatusCanceled
		sub.err = ctx.Err()
		sub.timeSolved = time.Now()
		sub.mu.Unlock()
		return
	default:
	}

	sub.mu.Lock()
	sub.status = StatusInProgress
	sub.mu.Unlock()

	ss, err := s.Sample(p, pt, sp)
	sub.mu.Lock()
	defer sub.mu.Unlock()
	sub.timeSolved = time.Now()
	if ctx.Err() != nil {
		sub.status = StatusCanceled
		sub.err = ctx.Err()
		return
	}
	if err != nil {
		sub.status = StatusFailed
		sub.err = err
		return
	}
	sub.status = StatusCompleted
	sub.result = ss
}

// Status returns the current status of an asynchronously submitted
// problem.
func (sub *SubmittedProblem) Status() (*ProblemStatus, error) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	ps := &ProblemStatus{
		ID:           sub.id,
		TimeReceived: sub.timeReceived,
		TimeSolved:   sub.timeSolved,
		State:        StateSubmitted,
		RemoteStatus: sub.status,
		Error:        sub.err,
	}
	select {
	case <-sub.done:
		ps.State = StateDone
	default:
	}
	return ps, nil
}

// Done says whether an asynchronously submitted problem has completed.
func (sub *SubmittedProblem) Done() bool {
	select {
	case <-sub.done:
		return true
	default:
		return false
	}
}

// Cancel cancels an asynchronously submitted problem.  A problem whose
// solver has already started cannot be interrupted mid-solve, but its
// result is marked canceled and discarded.
func (sub *SubmittedProblem) Cancel() {
	sub.cancel()
}

// AwaitCompletion waits for an asynchronously submitted problem to complete.
// It returns true if the problem completed, false if the specified timeout was
// reached.
func (sub *SubmittedProblem) AwaitCompletion(timeout time.Duration) bool {
	select {
	case <-sub.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// AwaitCompletion waits for multiple asynchronously submitted problems to
// complete.  It returns true if a minimum number of problems completed, false
// if the specified timeout was reached first.  For a single submitted problem,
// SubmittedProblem.AwaitCompletion may be more convenient.
func AwaitCompletion(sps []*SubmittedProblem, minDone int, timeout time.Duration) bool {
	if minDone <= 0 {
		return true
	}
	finished := make(chan struct{}, len(sps))
	for _, sub := range sps {
		go func(sub *SubmittedProblem) {
			<-sub.done
			finished <- struct{}{}
		}(sub)
	}
	deadline := time.After(timeout)
	for n := 0; n < minDone; n++ {
		select {
		case <-finished:
		case <-deadline:
			return false
		}
	}
	return true
}

// Result returns the result of an asynchronously submitted problem.  It
// fails with an ErrAsyncNotDone error if the problem has not completed.
func (sub *SubmittedProblem) Result() (SampleSet, error) {
	if !sub.Done() {
		return SampleSet{}, newErrorf(ErrAsyncNotDone, "Problem %s has not completed", sub.id)
	}
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.err != nil {
		return SampleSet{}, sub.err
	}
	return sub.result, nil
}
