package vcs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/chainguard-dev/clog"
)

// ErrCheckoutFailed means the external VCS tool exited non-zero.
var ErrCheckoutFailed = errors.New("checkout failed")

// Runner executes a planned invocation. The exec-backed implementation is
// swapped for a fake in tests.
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// ExecRunner runs invocations as child processes with inherited stdio.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, inv Invocation) error {
	log := clog.FromContext(ctx)
	log.Infof("running: %s %s", inv.Executable, strings.Join(inv.Args, " "))

	cmd := exec.CommandContext(ctx, inv.Executable, inv.Args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: `%s %s`: %v", ErrCheckoutFailed, inv.Executable, inv.Args[0], err)
	}
	return nil
}
