// Package hooks runs user scripts after settings change.
//
// Scripts live in <hooks_dir>/<hook point>/ and run in name order. Only
// regular files with an executable bit are considered.
package hooks

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cristianoliveira/flashprefs/internal/colors"
	"github.com/cristianoliveira/flashprefs/internal/config"
	"github.com/cristianoliveira/flashprefs/internal/logging"
)

// PostToggle runs after a toggle has been written to the store.
const PostToggle = "post-toggle"

const (
	// FailureWarn prints a warning for every failing script.
	FailureWarn = "warn"
	// FailureIgnore only logs failures.
	FailureIgnore = "ignore"

	defaultTimeout = 10 * time.Second
)

// Runner executes hook scripts synchronously.
type Runner struct {
	dir         string
	timeout     time.Duration
	failureMode string
	output      io.Writer
	log         logging.Logger
	now         func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets where script output is copied. Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.output = w }
}

// WithLogger sets the structured logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// NewRunner returns a runner over dir.
func NewRunner(dir string, timeout time.Duration, failureMode string, opts ...Option) *Runner {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if failureMode != FailureIgnore {
		failureMode = FailureWarn
	}
	r := &Runner{
		dir:         dir,
		timeout:     timeout,
		failureMode: failureMode,
		output:      os.Stderr,
		log:         logging.Noop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromConfig builds a runner from hooks_dir, hooks_timeout and
// hooks_failure_mode. An empty hooks_dir means <config_dir>/hooks.
func NewFromConfig() *Runner {
	timeout := time.Duration(config.GetInt("hooks_timeout", 10)) * time.Second
	return NewRunner(Dir(), timeout, config.Get("hooks_failure_mode", FailureWarn),
		WithLogger(logging.GetGlobal().With("component", "hooks")))
}

// Dir returns the configured hooks directory.
func Dir() string {
	dir := strings.TrimSpace(config.Get("hooks_dir", ""))
	if dir == "" {
		return filepath.Join(config.Get("config_dir", ""), "hooks")
	}
	if strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, dir[2:])
		}
	}
	return dir
}

// Dir returns the directory the runner reads scripts from.
func (r *Runner) Dir() string {
	return r.dir
}

// Scripts lists the executable scripts for point, sorted by name.
func (r *Runner) Scripts(point string) ([]string, error) {
	pointDir := filepath.Join(r.dir, point)
	entries, err := os.ReadDir(pointDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read hooks directory %s: %w", pointDir, err)
	}
	var scripts []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(pointDir, e.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() || info.Mode()&0o111 == 0 {
			continue
		}
		scripts = append(scripts, path)
	}
	sort.Strings(scripts)
	return scripts, nil
}

// Run executes every script for point with env added to the process
// environment. Each script gets its own timeout. A failing script does not
// stop the ones after it; the failures are joined into the returned error.
func (r *Runner) Run(ctx context.Context, point string, env map[string]string) error {
	scripts, err := r.Scripts(point)
	if err != nil {
		return err
	}
	if len(scripts) == 0 {
		return nil
	}
	colors.Debug(fmt.Sprintf("Running %s hooks (%d script(s))", point, len(scripts)))

	environ := r.environ(point, env)
	var errs []error
	for _, script := range scripts {
		if err := r.runScript(ctx, script, environ); err != nil {
			name := filepath.Base(script)
			r.log.Warn("hook failed", "point", point, "script", name, "error", err)
			if r.failureMode == FailureWarn {
				colors.Warning(fmt.Sprintf("hook %s failed: %v", name, err))
			}
			errs = append(errs, fmt.Errorf("hook %s: %w", name, err))
		}
	}
	return stderrors.Join(errs...)
}

func (r *Runner) runScript(ctx context.Context, script string, environ []string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := r.now()
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, script)
	cmd.Env = environ
	cmd.Stdout = &out
	cmd.Stderr = &out
	// children that inherit the pipes must not outlive the deadline
	cmd.WaitDelay = time.Second
	err := cmd.Run()
	if out.Len() > 0 && r.output != nil {
		_, _ = r.output.Write(out.Bytes())
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("timed out after %s", r.timeout)
	}
	if err != nil {
		return err
	}
	r.log.Debug("hook completed", "script", filepath.Base(script), "duration", time.Since(start).String())
	return nil
}

func (r *Runner) environ(point string, env map[string]string) []string {
	environ := append(os.Environ(),
		"HOOK_POINT="+point,
		"HOOK_TIMESTAMP="+r.now().Format(time.RFC3339),
	)
	if exe, err := os.Executable(); err == nil {
		environ = append(environ, "FLASHPREFS_BINARY="+exe)
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		environ = append(environ, k+"="+env[k])
	}
	return environ
}
