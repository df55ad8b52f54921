package executor

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Executor defines the interface for running system commands.
type Executor interface {
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultExecutor is the standard implementation using os/exec.
type DefaultExecutor struct{}

func (e *DefaultExecutor) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Opener hands a rendered document to the desktop's default viewer.
type Opener struct {
	exec Executor
	goos string
}

// NewOpener creates an opener for the running platform.
func NewOpener(e Executor) *Opener {
	return &Opener{exec: e, goos: runtime.GOOS}
}

// OpenCommand returns the viewer command for goos.
func OpenCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}

// Open launches the viewer for path.
func (o *Opener) Open(ctx context.Context, path string) error {
	name, args := OpenCommand(o.goos, path)
	out, err := o.exec.CombinedOutput(ctx, name, args...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("%s %s: %w", name, path, err)
		}
		return fmt.Errorf("%s %s: %w: %s", name, path, err, msg)
	}
	return nil
}
