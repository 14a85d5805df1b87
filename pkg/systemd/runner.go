package systemd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/arthur-debert/cfgmigrate/pkg/logging"
	"github.com/rs/zerolog"
)

// Runner executes an external command and returns its stdout
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec
type execRunner struct {
	logger zerolog.Logger
}

// NewExecRunner creates a Runner backed by os/exec
func NewExecRunner() Runner {
	return &execRunner{logger: logging.GetLogger("systemd.exec")}
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	logging.LogCommand(r.logger, name, args)

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		r.logger.Debug().
			Err(err).
			Str("command", name).
			Strs("args", args).
			Str("stderr", stderr.String()).
			Msg("Command execution failed")

		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.Bytes(), fmt.Errorf("%w: %s", err, msg)
		}
		return stdout.Bytes(), err
	}

	return stdout.Bytes(), nil
}
