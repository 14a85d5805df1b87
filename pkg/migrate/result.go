package migrate

import (
	stderrors "errors"
	"time"

	"github.com/arthur-debert/cfgmigrate/pkg/copytree"
	"github.com/arthur-debert/cfgmigrate/pkg/tunables"
	"github.com/arthur-debert/cfgmigrate/pkg/types"
)

// State is a step of the migration state machine
type State string

// States, in the order a successful run visits them
const (
	StateInit     State = "init"
	StateDiscover State = "discover"
	StateQuiesce  State = "quiesce"
	StateMigrate  State = "migrate"
	StateResume   State = "resume"
	StateDone     State = "done"
)

// Status is the outcome of a run
type Status string

const (
	// StatusSuccess means the tree was migrated and every service restarted
	StatusSuccess Status = "success"
	// StatusNothingToDo means no service matched the application
	StatusNothingToDo Status = "nothing-to-do"
	// StatusPlanned means a dry run completed discovery
	StatusPlanned Status = "planned"
	// StatusFailed means the run stopped on an error
	StatusFailed Status = "failed"
)

// Result records what a run did. It is filled in progressively, so a failed
// run still reports everything that happened before the failure.
type Result struct {
	RunID          string           `json:"runId"`
	App            string           `json:"app"`
	AppRoot        string           `json:"appRoot,omitempty"`
	ConfigRoot     string           `json:"configRoot,omitempty"`
	DestRoot       string           `json:"destRoot"`
	SymlinkMapPath string           `json:"symlinkMap"`
	DryRun         bool             `json:"dryRun"`
	State          State            `json:"state"`
	Status         Status           `json:"status"`
	Services       []types.Service  `json:"services"`
	Stopped        []string         `json:"stopped"`
	Started        []string         `json:"started"`
	Copy           copytree.Stats   `json:"copy"`
	Symlinks       int              `json:"symlinks"`
	Restored       []string         `json:"restored"`
	FailedSymlinks []string         `json:"failedSymlinks,omitempty"`
	Tunables       *tunables.Report `json:"tunables,omitempty"`
	Errors         []string         `json:"errors,omitempty"`
	StartedAt      time.Time        `json:"startedAt"`
	FinishedAt     time.Time        `json:"finishedAt"`

	err error
}

// Err is the run's error: a failure before Quiesce, or Migrate and Resume
// failures joined
func (r *Result) Err() error {
	return r.err
}

// OK reports whether the run ended without error
func (r *Result) OK() bool {
	return r.err == nil
}

// Duration is the wall time of the run
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *Result) fail(err error) {
	r.err = stderrors.Join(r.err, err)
}

func errorStrings(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, errorStrings(e)...)
		}
		return out
	}
	return []string{err.Error()}
}
