// Package model defines the domain types for the redeploy CLI.
//
// The central entity is the deploy run: an ordered sequence of steps
// (pull, down, up) whose per-step outcomes are collected into a
// DeployReport. Nothing here is persisted — a report lives only for the
// duration of a single CLI invocation.
package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// StepName identifies one stage of the deploy pipeline.
// The canonical order is: StepPull → StepDown → StepUp.
type StepName string

const (
	// StepPull fetches and integrates the latest source from the
	// configured remote/branch into the working tree.
	StepPull StepName = "pull"

	// StepDown stops and removes the compose project's containers
	// and networks.
	StepDown StepName = "down"

	// StepUp rebuilds images and starts the compose project detached.
	StepUp StepName = "up"
)

// String returns the string representation of StepName.
func (s StepName) String() string {
	return string(s)
}

// IsValid checks whether the StepName is one of the pipeline stages.
func (s StepName) IsValid() bool {
	switch s {
	case StepPull, StepDown, StepUp:
		return true
	default:
		return false
	}
}

// ProjectState is the aggregate lifecycle state of a compose project,
// derived from the states of its containers:
//
//	absent  — no containers exist for the project
//	running — every container is running
//	degraded — some, but not all, containers are running
//	stopped — containers exist but none are running
type ProjectState string

const (
	// StateRunning indicates all of the project's containers are running.
	StateRunning ProjectState = "running"

	// StateDegraded indicates a mix of running and non-running containers.
	StateDegraded ProjectState = "degraded"

	// StateStopped indicates containers exist but none are running.
	StateStopped ProjectState = "stopped"

	// StateAbsent indicates no containers exist for the project,
	// typically before the first deploy or after a down.
	StateAbsent ProjectState = "absent"
)

// String returns the string representation of ProjectState.
func (s ProjectState) String() string {
	return string(s)
}

// IsValid checks whether the ProjectState value is one of the
// predefined states.
func (s ProjectState) IsValid() bool {
	switch s {
	case StateRunning, StateDegraded, StateStopped, StateAbsent:
		return true
	default:
		return false
	}
}

// ParseProjectState converts a string to a ProjectState.
// Returns an error if the string does not match any valid state.
func ParseProjectState(s string) (ProjectState, error) {
	state := ProjectState(strings.ToLower(s))
	if !state.IsValid() {
		return "", fmt.Errorf("invalid project state: %q (valid: running, degraded, stopped, absent)", s)
	}
	return state, nil
}

// StepResult records the outcome of a single pipeline step.
type StepResult struct {
	// Step is the pipeline stage this result belongs to.
	Step StepName `json:"step"`

	// Duration is the wall-clock time the step took.
	Duration time.Duration `json:"-"`

	// Err is the step's failure, nil on success. It is excluded from
	// JSON marshalling; Failed/Message carry the serializable view.
	Err error `json:"-"`
}

// Failed reports whether the step ended in an error.
func (r StepResult) Failed() bool {
	return r.Err != nil
}

// Message returns the step's error text, or "" on success.
func (r StepResult) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// DeployReport aggregates the results of a deploy run in execution order.
//
// The report preserves the invariant that steps appear in the order they
// were invoked, which is how tests verify pull-before-down-before-up.
type DeployReport struct {
	// StartedAt is when the run began.
	StartedAt time.Time `json:"startedAt"`

	// Steps holds one result per executed step, in execution order.
	// Steps skipped by flags (e.g. --no-pull) do not appear.
	Steps []StepResult `json:"steps"`
}

// Record appends a step result to the report.
func (d *DeployReport) Record(step StepName, duration time.Duration, err error) {
	d.Steps = append(d.Steps, StepResult{Step: step, Duration: duration, Err: err})
}

// FirstError returns the earliest step failure, or nil if every step
// succeeded. The deploy command's exit code is derived from this.
func (d *DeployReport) FirstError() error {
	for _, s := range d.Steps {
		if s.Err != nil {
			return s.Err
		}
	}
	return nil
}

// Succeeded reports whether every executed step completed without error.
func (d *DeployReport) Succeeded() bool {
	return d.FirstError() == nil
}

// ContainerInfo holds runtime information about one Docker container
// belonging to the compose project. This data is fetched from the Docker
// API on demand, never persisted.
type ContainerInfo struct {
	// ContainerID is the Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the human-readable Docker container name.
	ContainerName string `json:"containerName"`

	// ServiceName is the compose service the container was created from.
	ServiceName string `json:"serviceName,omitempty"`

	// State is the Docker container state (e.g. "running", "exited").
	State string `json:"state"`

	// Labels is the full label set on the container.
	Labels map[string]string `json:"labels,omitempty"`
}

// projectNameRegex validates compose project names: lowercase alphanumeric
// plus hyphens and underscores, starting with a letter or digit. This
// mirrors the constraint docker compose itself enforces.
var projectNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateProjectName checks whether the given name is usable as a compose
// project name. An empty name is allowed — it means "let compose derive the
// project name from the directory".
func ValidateProjectName(name string) error {
	if name == "" {
		return nil
	}
	if !projectNameRegex.MatchString(name) {
		return fmt.Errorf("invalid project name %q: must consist of lowercase alphanumeric characters, hyphens, and underscores, and start with a letter or digit", name)
	}
	return nil
}

// ExitCode defines the CLI exit codes. These codes allow scripts and CI
// systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitDockerUnavailable indicates the Docker daemon is not accessible
	// or a docker compose invocation failed.
	ExitDockerUnavailable ExitCode = 3

	// ExitGitError indicates a Git operation (pull, repo discovery) failed.
	ExitGitError ExitCode = 5

	// ExitComposeInvalid indicates the compose file could not be parsed
	// or declares no services.
	ExitComposeInvalid ExitCode = 6

	// ExitConfigError indicates the redeploy config file is invalid.
	// 78 is EX_CONFIG from sysexits.h.
	ExitConfigError ExitCode = 78
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitCodeFor extracts the exit code carried by err. CLIError values keep
// their own code; anything else maps to ExitGeneralError, and nil maps to
// ExitSuccess.
func ExitCodeFor(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitGeneralError
}
