package command_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/slipway-ci/slipway/pkg/domain/model"
	"github.com/slipway-ci/slipway/pkg/infra/command"
)

func TestRunner_Run(t *testing.T) {
	ctx := context.Background()
	runner := command.NewRunner()

	t.Run("successful command", func(t *testing.T) {
		err := runner.Run(ctx, model.ShellCommand(t.TempDir(), "true"))
		gt.NoError(t, err)
	})

	t.Run("failing command", func(t *testing.T) {
		err := runner.Run(ctx, model.ShellCommand(t.TempDir(), "false"))
		gt.Error(t, err)
	})

	t.Run("command output is attached to errors", func(t *testing.T) {
		err := runner.Run(ctx, model.ShellCommand(t.TempDir(), "echo boom >&2; exit 1"))
		gt.Error(t, err)
	})

	t.Run("runs in the given directory", func(t *testing.T) {
		dir := t.TempDir()
		err := runner.Run(ctx, model.ShellCommand(dir, "echo content > out.txt"))
		gt.NoError(t, err)

		_, err = os.Stat(filepath.Join(dir, "out.txt"))
		gt.NoError(t, err)
	})

	t.Run("extra environment entries", func(t *testing.T) {
		dir := t.TempDir()
		err := runner.Run(ctx, model.Command{
			Dir:  dir,
			Name: "/bin/sh",
			Args: []string{"-c", `test "$SLIPWAY_TEST_VAR" = "hello"`},
			Env:  []string{"SLIPWAY_TEST_VAR=hello"},
		})
		gt.NoError(t, err)
	})

	t.Run("empty executable", func(t *testing.T) {
		err := runner.Run(ctx, model.Command{})
		gt.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err := runner.Run(cancelled, model.ShellCommand(t.TempDir(), "sleep 10"))
		gt.Error(t, err)
	})
}
