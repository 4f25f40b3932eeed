// Package pubget runs the package fetch tool after manifest writes.
package pubget

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pubspec-tools/pubassist/internal/core"
	"github.com/pubspec-tools/pubassist/internal/manifest"
)

// Runner executes `pub get` for a project, picking the flutter or dart tool
// from the manifest. Failures carry the captured stderr so the conflict
// advisor can present meaningful remediation choices.
type Runner struct {
	tool    string // overrides manifest-based tool selection
	dryRun  bool
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithTool forces a specific tool binary (fvm, a pinned SDK path) instead
// of choosing between flutter and dart.
func WithTool(tool string) Option {
	return func(r *Runner) { r.tool = tool }
}

// WithDryRun prints the command instead of running it.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) { r.dryRun = dryRun }
}

// WithVerbose echoes the command before running it.
func WithVerbose(verbose bool) Option {
	return func(r *Runner) { r.verbose = verbose }
}

// WithOutput redirects the tool's streamed output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		if stdout != nil {
			r.stdout = stdout
		}
		if stderr != nil {
			r.stderr = stderr
		}
	}
}

// New creates a Runner with the given options.
func New(opts ...Option) *Runner {
	r := &Runner{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tool returns the binary used to fetch packages for the project: flutter
// when the manifest declares the flutter SDK dependency, dart otherwise.
func (r *Runner) Tool(project *core.Project) string {
	if r.tool != "" {
		return r.tool
	}
	if m, err := manifest.Load(project.Path); err == nil && m.UsesFlutter() {
		return "flutter"
	}
	return "dart"
}

// Run executes `<tool> pub get` in the project directory, streaming output
// as it arrives.
func (r *Runner) Run(ctx context.Context, project *core.Project) error {
	tool := r.Tool(project)

	if r.dryRun {
		fmt.Fprintf(r.stdout, "[dry-run] Would execute: %s pub get (in %s)\n", tool, project.Path)
		return nil
	}

	if r.verbose {
		fmt.Fprintf(r.stdout, "Executing: %s pub get\n", tool)
	}

	cmd := exec.CommandContext(ctx, tool, "pub", "get")
	cmd.Dir = project.Path
	cmd.Stdout = r.stdout

	var stderrBuf bytes.Buffer
	cmd.Stderr = io.MultiWriter(r.stderr, &stderrBuf)

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderrBuf.String()); msg != "" {
			return fmt.Errorf("%s pub get: %w: %s", tool, err, msg)
		}
		return fmt.Errorf("%s pub get: %w", tool, err)
	}
	return nil
}
