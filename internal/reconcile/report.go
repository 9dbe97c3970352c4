package reconcile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// UnitKind identifies which variant of managed unit a result refers to.
type UnitKind string

const (
	KindTool      UnitKind = "tool"
	KindEnvVar    UnitKind = "env"
	KindAlias     UnitKind = "alias"
	KindExtension UnitKind = "extension"
)

// Outcome is the per-unit terminal state of a run.
type Outcome string

const (
	// OutcomeAlreadyPresent means the unit was present before the run
	OutcomeAlreadyPresent Outcome = "already_present"
	// OutcomeInstalled means the unit was installed during the run
	OutcomeInstalled Outcome = "newly_installed"
	// OutcomeSkipped means the user declined the action
	OutcomeSkipped Outcome = "skipped_by_user"
	// OutcomeFailed means the install action reported failure
	OutcomeFailed Outcome = "failed"
	// OutcomeMissing means the unit is absent and no action could run
	// (missing precondition, e.g. npm unavailable or no package mapping)
	OutcomeMissing Outcome = "missing"
)

// UnitResult records the outcome for one managed unit.
type UnitResult struct {
	Kind    UnitKind `json:"kind"`
	ID      string   `json:"id"`
	Outcome Outcome  `json:"outcome"`
	Reason  string   `json:"reason,omitempty"`
}

// MigrationRecord captures one alias migration outcome.
type MigrationRecord struct {
	Old    string `json:"old"`
	New    string `json:"new"`
	Status string `json:"status"`
}

// Report is the persisted record of one convergence run. The Summary
// section is rebuilt from a fresh probe after all phases complete, so it
// reflects ground truth even when earlier steps partially failed.
type Report struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Forced    bool      `json:"forced"`

	ShellKind       string `json:"shell_kind"`
	ConfigPath      string `json:"config_path"`
	AliasPath       string `json:"alias_path,omitempty"`
	RegistryPath    string `json:"registry_path"`
	RegistrySalvage bool   `json:"registry_salvaged,omitempty"`

	Migrations     []MigrationRecord `json:"migrations,omitempty"`
	RemovedAliases []string          `json:"removed_aliases,omitempty"`

	// Notes carry run-level observations, e.g. registry corruption
	// recovery or a failed cleanup step.
	Notes []string `json:"notes,omitempty"`

	Summary []UnitResult `json:"summary"`
}

// newReport seeds a report with a fresh run id.
func newReport(forced bool) *Report {
	return &Report{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Forced:    forced,
	}
}

// Save persists the report as JSON via temp file + rename. Report
// persistence is informational; callers may ignore the error.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, ".report-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
