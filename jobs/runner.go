// Package jobs serializes background work behind a single ownership slot.
package jobs

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrBusy reports that the job slot is already held.
var ErrBusy = errors.New("another job is already running")

const logDepth = 50

// States a Runner snapshot can report.
const (
	StateIdle    = "idle"
	StateRunning = "running"
	StateDone    = "done"
	StateFailed  = "failed"
)

// Runner owns the single job slot. Begin hands out the ownership token and
// nothing else can start until that token is finished. The log ring keeps
// the most recent lines across jobs.
type Runner struct {
	mu         sync.Mutex
	current    *Job
	state      string
	kind       string
	name       string
	lines      []string
	lastError  string
	lastResult any
	started    time.Time
	finished   time.Time
}

// NewRunner returns an idle runner.
func NewRunner() *Runner {
	return &Runner{state: StateIdle}
}

// Begin claims the slot for a job of the given kind. It fails with ErrBusy
// while another job holds it.
func (r *Runner) Begin(kind, name string) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		return nil, ErrBusy
	}
	job := &Job{runner: r, kind: kind, name: name}
	r.current = job
	r.state = StateRunning
	r.kind = kind
	r.name = name
	r.lastError = ""
	r.lastResult = nil
	r.started = time.Now().UTC()
	r.finished = time.Time{}
	r.appendLine(fmt.Sprintf("%s started: %s", kind, name))
	return job, nil
}

// appendLine is called with r.mu held.
func (r *Runner) appendLine(line string) {
	stamped := time.Now().UTC().Format("15:04:05") + " " + line
	if len(r.lines) == logDepth {
		copy(r.lines, r.lines[1:])
		r.lines[logDepth-1] = stamped
	} else {
		r.lines = append(r.lines, stamped)
	}
}

// Job is the ownership token for the slot.
type Job struct {
	runner *Runner
	kind   string
	name   string
	once   sync.Once
}

// Logf records a progress line on the runner's ring buffer.
func (j *Job) Logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	log.Printf("[%s] %s", j.kind, line)
	j.runner.mu.Lock()
	defer j.runner.mu.Unlock()
	j.runner.appendLine(line)
}

// Finish records the outcome and releases the slot. Calls after the first
// are ignored.
func (j *Job) Finish(result any, err error) {
	j.once.Do(func() {
		j.runner.mu.Lock()
		defer j.runner.mu.Unlock()
		j.runner.current = nil
		j.runner.finished = time.Now().UTC()
		if err != nil {
			j.runner.state = StateFailed
			j.runner.lastError = err.Error()
			j.runner.appendLine(fmt.Sprintf("%s failed: %v", j.kind, err))
			return
		}
		j.runner.state = StateDone
		j.runner.lastResult = result
		j.runner.appendLine(j.kind + " finished")
	})
}

// Status is the snapshot the dashboard polls.
type Status struct {
	Busy       bool       `json:"busy"`
	State      string     `json:"state"`
	Kind       string     `json:"kind,omitempty"`
	Name       string     `json:"name,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Log        []string   `json:"log"`
	LastError  string     `json:"last_error,omitempty"`
	LastResult any        `json:"last_result,omitempty"`
}

// Status returns a copy of the runner's current state.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := Status{
		Busy:       r.current != nil,
		State:      r.state,
		Kind:       r.kind,
		Name:       r.name,
		Log:        append([]string(nil), r.lines...),
		LastError:  r.lastError,
		LastResult: r.lastResult,
	}
	if !r.started.IsZero() {
		t := r.started
		st.StartedAt = &t
	}
	if !r.finished.IsZero() {
		t := r.finished
		st.FinishedAt = &t
	}
	return st
}
