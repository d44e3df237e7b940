package deploy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/redeploy/internal/model"
)

// recorder implements SourceSyncer and Orchestrator, appending every
// invocation to a shared trace so tests can assert ordering across both
// collaborators.
type recorder struct {
	trace []string

	pullErr error
	downErr error
	upErr   error
}

func (r *recorder) Pull(_ context.Context, remote, branch string) error {
	r.trace = append(r.trace, fmt.Sprintf("pull %s %s", remote, branch))
	return r.pullErr
}

func (r *recorder) Down(_ context.Context, removeVolumes bool) error {
	r.trace = append(r.trace, fmt.Sprintf("down volumes=%t", removeVolumes))
	return r.downErr
}

func (r *recorder) Up(_ context.Context, build bool) error {
	r.trace = append(r.trace, fmt.Sprintf("up build=%t", build))
	return r.upErr
}

// newTestPipeline wires a pipeline around the recorder with a discard
// logger and a buffer capturing the progress lines.
func newTestPipeline(r *recorder) (*Pipeline, *bytes.Buffer) {
	out := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(r, r, "origin", "main", out, log), out
}

// TestRunOrder pins the pipeline's invocation order: pull strictly before
// down, down strictly before up.
func TestRunOrder(t *testing.T) {
	r := &recorder{}
	p, _ := newTestPipeline(r)

	report, err := p.Run(context.Background(), Options{Build: true})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"pull origin main",
		"down volumes=false",
		"up build=true",
	}, r.trace)

	// The report mirrors the execution order.
	require.Len(t, report.Steps, 3)
	assert.Equal(t, model.StepPull, report.Steps[0].Step)
	assert.Equal(t, model.StepDown, report.Steps[1].Step)
	assert.Equal(t, model.StepUp, report.Steps[2].Step)
	assert.True(t, report.Succeeded())
}

// TestRunProgressLines verifies the three fixed progress lines print in
// order on a successful run.
func TestRunProgressLines(t *testing.T) {
	r := &recorder{}
	p, out := newTestPipeline(r)

	_, err := p.Run(context.Background(), Options{Build: true})
	require.NoError(t, err)

	assert.Equal(t, []string{
		ProgressPull,
		ProgressRestart,
		ProgressDone,
	}, strings.Split(strings.TrimRight(out.String(), "\n"), "\n"))
}

// TestRunKeepGoing verifies the default semantics: a failed pull does not
// stop the teardown and rebuild, all progress lines still print, and the
// returned error is the first failure.
func TestRunKeepGoing(t *testing.T) {
	pullErr := errors.New("merge conflict")
	r := &recorder{pullErr: pullErr}
	p, out := newTestPipeline(r)

	report, err := p.Run(context.Background(), Options{Build: true})

	require.ErrorIs(t, err, pullErr)
	assert.Equal(t, []string{
		"pull origin main",
		"down volumes=false",
		"up build=true",
	}, r.trace, "down and up must still run after a failed pull")

	// All three progress lines print regardless of the failure.
	assert.Contains(t, out.String(), ProgressPull)
	assert.Contains(t, out.String(), ProgressRestart)
	assert.Contains(t, out.String(), ProgressDone)

	require.Len(t, report.Steps, 3)
	assert.True(t, report.Steps[0].Failed())
	assert.False(t, report.Steps[1].Failed())
	assert.False(t, report.Steps[2].Failed())
}

// TestRunKeepGoingUpError verifies the first error wins when a later step
// also fails.
func TestRunKeepGoingUpError(t *testing.T) {
	pullErr := errors.New("network down")
	upErr := errors.New("build failed")
	r := &recorder{pullErr: pullErr, upErr: upErr}
	p, _ := newTestPipeline(r)

	_, err := p.Run(context.Background(), Options{Build: true})
	assert.ErrorIs(t, err, pullErr, "the first failed step determines the returned error")
}

// TestRunFailFast verifies --fail-fast semantics: the pipeline stops at
// the first failed step.
func TestRunFailFast(t *testing.T) {
	r := &recorder{pullErr: errors.New("network down")}
	p, _ := newTestPipeline(r)

	report, err := p.Run(context.Background(), Options{Build: true, FailFast: true})

	require.Error(t, err)
	assert.Equal(t, []string{"pull origin main"}, r.trace, "down and up must not run")
	assert.Len(t, report.Steps, 1)
}

func TestRunFailFastDownError(t *testing.T) {
	r := &recorder{downErr: errors.New("daemon unreachable")}
	p, _ := newTestPipeline(r)

	report, err := p.Run(context.Background(), Options{Build: true, FailFast: true})

	require.Error(t, err)
	assert.Equal(t, []string{"pull origin main", "down volumes=false"}, r.trace)
	assert.Len(t, report.Steps, 2)
}

// TestRunSkipPull verifies --no-pull: the source syncer is never invoked
// and the pull progress line is not printed.
func TestRunSkipPull(t *testing.T) {
	r := &recorder{}
	p, out := newTestPipeline(r)

	report, err := p.Run(context.Background(), Options{SkipPull: true, Build: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"down volumes=false", "up build=true"}, r.trace)
	assert.NotContains(t, out.String(), ProgressPull)
	assert.Len(t, report.Steps, 2)
}

// TestRunNoBuild verifies --no-build reaches the orchestrator.
func TestRunNoBuild(t *testing.T) {
	r := &recorder{}
	p, _ := newTestPipeline(r)

	_, err := p.Run(context.Background(), Options{Build: false})
	require.NoError(t, err)

	assert.Contains(t, r.trace, "up build=false")
}
