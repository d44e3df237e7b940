package deploy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mmr-tortoise/redeploy/internal/model"
)

// Progress lines printed during a deploy, in fixed order. They are
// printed unconditionally — a failed step does not suppress them — which
// preserves the fire-and-forget feel of the shell script this tool
// replaces while the run report carries the real outcomes.
const (
	// ProgressPull announces the source update.
	ProgressPull = "Pulling latest code..."

	// ProgressRestart announces the container teardown and rebuild.
	ProgressRestart = "Rebuilding and restarting containers..."

	// ProgressDone closes the run.
	ProgressDone = "Deployment complete!"
)

// SourceSyncer updates the working tree from a version-control remote.
// Implemented by git.Syncer.
type SourceSyncer interface {
	Pull(ctx context.Context, remote, branch string) error
}

// Orchestrator drives the compose project's lifecycle.
// Implemented by docker.Compose.
type Orchestrator interface {
	Down(ctx context.Context, removeVolumes bool) error
	Up(ctx context.Context, build bool) error
}

// Options controls which parts of the pipeline run and how failures
// propagate.
type Options struct {
	// SkipPull leaves the working tree as is (deploy --no-pull).
	SkipPull bool

	// Build passes --build to compose up. On by default for deploys;
	// deploy --no-build clears it.
	Build bool

	// FailFast stops the pipeline at the first failed step instead of
	// the default keep-going behavior. Keep-going matches the wrapped
	// script, which never inspected exit codes.
	FailFast bool
}

// Pipeline executes the deploy steps in their fixed order:
// pull, then down, then up.
type Pipeline struct {
	source SourceSyncer
	orch   Orchestrator
	remote string
	branch string

	// out receives the progress lines (stdout in production).
	out io.Writer

	log *slog.Logger
}

// New constructs a Pipeline. All collaborators are required; the logger
// may be one with a discard handler, but not nil.
func New(source SourceSyncer, orch Orchestrator, remote, branch string, out io.Writer, log *slog.Logger) *Pipeline {
	return &Pipeline{
		source: source,
		orch:   orch,
		remote: remote,
		branch: branch,
		out:    out,
		log:    log,
	}
}

// Run executes the pipeline and returns the per-step report.
//
// The returned error is the first step failure (nil when all steps
// succeeded); all executed steps appear in the report either way. In the
// default keep-going mode every step runs to completion regardless of
// earlier failures, so a failed pull still tears down and rebuilds the
// containers — exactly what the wrapped script did.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*model.DeployReport, error) {
	report := &model.DeployReport{StartedAt: time.Now().UTC()}

	if !opts.SkipPull {
		fmt.Fprintln(p.out, ProgressPull)
		p.runStep(report, model.StepPull, func() error {
			return p.source.Pull(ctx, p.remote, p.branch)
		})
		if opts.FailFast && report.FirstError() != nil {
			return report, report.FirstError()
		}
	}

	fmt.Fprintln(p.out, ProgressRestart)

	p.runStep(report, model.StepDown, func() error {
		return p.orch.Down(ctx, false)
	})
	if opts.FailFast && report.FirstError() != nil {
		return report, report.FirstError()
	}

	p.runStep(report, model.StepUp, func() error {
		return p.orch.Up(ctx, opts.Build)
	})

	fmt.Fprintln(p.out, ProgressDone)

	return report, report.FirstError()
}

// runStep times one step, records its result, and logs the outcome.
func (p *Pipeline) runStep(report *model.DeployReport, step model.StepName, fn func() error) {
	start := time.Now()
	err := fn()
	duration := time.Since(start)

	report.Record(step, duration, err)

	if err != nil {
		p.log.Error("step failed", "step", step.String(), "duration", duration, "error", err)
		return
	}
	p.log.Debug("step finished", "step", step.String(), "duration", duration)
}
