// Package procrun launches helper executables and streams their output
// line-by-line to the console and the install log concurrently.
package procrun

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/Nighthawk42/desktopmate-installer/internal/console"
	"github.com/Nighthawk42/desktopmate-installer/internal/logger"
)

// ExitCodeUnavailable is returned when the process terminated without a
// usable exit code, e.g. when killed by a signal.
const ExitCodeUnavailable = -1

const (
	// maxLineBytes bounds a single output line from the child process.
	maxLineBytes = 1024 * 1024

	// maskedValue replaces secret arguments in logged command lines.
	maskedValue = "***"
)

// Options adjust how the child process is launched and reported.
type Options struct {
	// Dir is the working directory for the child process.
	Dir string
	// Env is appended to the parent environment for the child process.
	Env []string
	// LogTag labels log lines from the child's stdout;
	// stderr lines get LogTag + "-ERR".
	LogTag string
	// MaskArgs are argument values that must never reach the log.
	MaskArgs []string
	// Stdout and Stderr override the per-line console echo (used in tests).
	Stdout func(line string)
	Stderr func(line string)
}

// Run spawns the executable with the fixed argument list, drains both
// output streams concurrently, and blocks until the process exits and both
// drains have completed. It returns the exit code; a non-zero exit is not
// an error. The error return covers spawn and pipe failures only.
func Run(ctx context.Context, name string, args []string, opts *Options) (int, error) {
	if opts == nil {
		opts = &Options{}
	}

	tag := opts.LogTag
	if tag == "" {
		tag = "proc"
	}

	echoOut := opts.Stdout
	if echoOut == nil {
		echoOut = console.Line
	}

	echoErr := opts.Stderr
	if echoErr == nil {
		echoErr = console.ErrorLine
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir

	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return ExitCodeUnavailable, fmt.Errorf("stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return ExitCodeUnavailable, fmt.Errorf("stderr pipe: %w", err)
	}

	logger.InfoKV(ctx, "Launching external process",
		"executable", name,
		"args", maskArgs(args, opts.MaskArgs))

	if err = cmd.Start(); err != nil {
		return ExitCodeUnavailable, fmt.Errorf("start %s: %w", name, err)
	}

	var drains sync.WaitGroup

	drains.Add(2)

	go func() {
		defer drains.Done()
		drainLines(ctx, stdout, "["+tag+"] ", echoOut)
	}()

	go func() {
		defer drains.Done()
		drainLines(ctx, stderr, "["+tag+"-ERR] ", echoErr)
	}()

	// Both drains must finish before Wait closes the pipes,
	// otherwise trailing output can be dropped.
	drains.Wait()

	err = cmd.Wait()

	var exitErr *exec.ExitError

	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		code := exitErr.ExitCode()
		if code < 0 {
			return ExitCodeUnavailable, nil
		}

		return code, nil
	default:
		return ExitCodeUnavailable, fmt.Errorf("wait for %s: %w", name, err)
	}
}

// drainLines echoes and logs every line from one stream until EOF.
func drainLines(ctx context.Context, stream io.Reader, logPrefix string, echo func(string)) {
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Text()
		echo(line)
		logger.Info(ctx, logPrefix+line)
	}
}

// maskArgs renders the argument list for logging with secrets replaced.
func maskArgs(args, secrets []string) string {
	if len(secrets) == 0 {
		return strings.Join(args, " ")
	}

	masked := make([]string, len(args))
	for i, arg := range args {
		masked[i] = arg
		for _, secret := range secrets {
			if secret != "" && arg == secret {
				masked[i] = maskedValue
				break
			}
		}
	}

	return strings.Join(masked, " ")
}
