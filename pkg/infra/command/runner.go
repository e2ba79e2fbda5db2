package command

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slipway-ci/slipway/pkg/domain/interfaces"
	"github.com/slipway-ci/slipway/pkg/domain/model"
)

// outputTail bounds how much command output is attached to errors.
const outputTail = 4096

type runner struct{}

// NewRunner creates a CommandRunner backed by os/exec.
func NewRunner() interfaces.CommandRunner {
	return &runner{}
}

// Run executes the command and waits for completion. Combined output is
// logged at debug level; on failure the tail of the output is attached to
// the returned error.
func (r *runner) Run(ctx context.Context, cmd model.Command) error {
	logger := ctxlog.From(ctx)

	if cmd.Name == "" {
		return goerr.New("command executable must not be empty")
	}

	execCmd := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	execCmd.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		execCmd.Env = append(os.Environ(), cmd.Env...)
	}

	var buf bytes.Buffer
	execCmd.Stdout = &buf
	execCmd.Stderr = &buf

	logger.Debug("Executing command",
		"command", execCmd.String(),
		"dir", cmd.Dir,
	)

	if err := execCmd.Run(); err != nil {
		return goerr.Wrap(err, "command failed",
			goerr.V("command", execCmd.String()),
			goerr.V("output", tail(buf.Bytes())),
		)
	}

	logger.Debug("Command completed",
		"command", execCmd.String(),
		"output_bytes", buf.Len(),
	)

	return nil
}

func tail(b []byte) string {
	if len(b) <= outputTail {
		return string(b)
	}
	return string(b[len(b)-outputTail:])
}
