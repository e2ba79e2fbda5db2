package model

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the overall state of a pipeline run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// StepID identifies a pipeline step. Steps execute strictly in the order
// listed here; a failed step aborts the run and no later step executes.
type StepID string

const (
	StepCheckout StepID = "checkout"
	StepSetup    StepID = "setup"
	StepInstall  StepID = "install"
	StepBuild    StepID = "build"
	StepVerify   StepID = "verify"
	StepRelease  StepID = "release"
	StepUpload   StepID = "upload"
)

// StepResult records the outcome of one executed step.
type StepResult struct {
	Step       StepID    `firestore:"step" json:"step"`
	Status     RunStatus `firestore:"status" json:"status"`
	StartedAt  time.Time `firestore:"started_at" json:"started_at"`
	FinishedAt time.Time `firestore:"finished_at" json:"finished_at"`
	Error      string    `firestore:"error,omitempty" json:"error,omitempty"`
}

// PipelineRun is the ephemeral state of a single pipeline execution: the
// triggering tag, the per-step outcomes and the created release. It is the
// unit persisted by the run recorder.
type PipelineRun struct {
	ID         string       `firestore:"id" json:"id"`
	Repository string       `firestore:"repository" json:"repository"`
	Tag        string       `firestore:"tag" json:"tag"`
	CommitSHA  string       `firestore:"commit_sha" json:"commit_sha"`
	Status     RunStatus    `firestore:"status" json:"status"`
	StartedAt  time.Time    `firestore:"started_at" json:"started_at"`
	FinishedAt time.Time    `firestore:"finished_at" json:"finished_at"`
	Steps      []StepResult `firestore:"steps" json:"steps"`
	ReleaseID  int64        `firestore:"release_id,omitempty" json:"release_id,omitempty"`
	ReleaseURL string       `firestore:"release_url,omitempty" json:"release_url,omitempty"`
	Assets     []string     `firestore:"assets,omitempty" json:"assets,omitempty"`
}

// NewPipelineRun creates a run in the running state with a fresh ID.
func NewPipelineRun(repository, tag string) *PipelineRun {
	return &PipelineRun{
		ID:         uuid.NewString(),
		Repository: repository,
		Tag:        tag,
		Status:     RunRunning,
		StartedAt:  time.Now(),
	}
}

// StartStep appends a running step result and returns its index.
func (r *PipelineRun) StartStep(step StepID) int {
	r.Steps = append(r.Steps, StepResult{
		Step:      step,
		Status:    RunRunning,
		StartedAt: time.Now(),
	})
	return len(r.Steps) - 1
}

// FinishStep closes the step at idx with the given outcome.
func (r *PipelineRun) FinishStep(idx int, err error) {
	r.Steps[idx].FinishedAt = time.Now()
	if err != nil {
		r.Steps[idx].Status = RunFailed
		r.Steps[idx].Error = err.Error()
		return
	}
	r.Steps[idx].Status = RunSucceeded
}

// Finish closes the run with the given outcome.
func (r *PipelineRun) Finish(err error) {
	r.FinishedAt = time.Now()
	if err != nil {
		r.Status = RunFailed
		return
	}
	r.Status = RunSucceeded
}

// FailedStep returns the first failed step, if any.
func (r *PipelineRun) FailedStep() (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Status == RunFailed {
			return s, true
		}
	}
	return StepResult{}, false
}
