package transcoder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// Executor abstracts process execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// CommandExecutor runs processes with os/exec and forwards every stdout and
// stderr line to onLine.
type CommandExecutor struct{}

// Run implements Executor.
func (CommandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", binary, err)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		once    sync.Once
		scanErr error
	)
	forward := func(line string) {
		if onLine == nil {
			return
		}
		mu.Lock()
		onLine(line)
		mu.Unlock()
	}
	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		scanner.Split(scanLinesOrReturns)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				forward(line)
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() { scanErr = err })
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return err
	}
	if scanErr != nil {
		return fmt.Errorf("read %s output: %w", binary, scanErr)
	}
	return nil
}

// ExitCode extracts a process exit code from err. It returns 0 for nil and
// -1 when err did not come from a process exit.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return -1
}

// scanLinesOrReturns splits on '\n' or '\r'; ffmpeg rewrites its progress
// line with bare carriage returns.
func scanLinesOrReturns(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i, b := range data {
		if b == '\n' || b == '\r' {
			return i + 1, data[:i], nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
