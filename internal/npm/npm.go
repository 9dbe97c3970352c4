// Package npm is the package-manager collaborator boundary. The engine
// only asks two questions of it: is a package globally installed, and
// install a package globally. Both are opaque single-shot operations with
// no retry; failures surface to the caller as plain results.
package npm

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/0x1NotMe/claude-workspace-tools/internal/logger"
)

// ErrUnavailable indicates the npm binary itself is not on PATH. Install
// actions treat this as a missing precondition and skip the unit.
var ErrUnavailable = errors.New("npm not found on PATH")

// Manager abstracts the global package operations so tests can substitute
// a fixed answer set for the real npm binary.
type Manager interface {
	// Installed reports whether pkg is recorded as a global install.
	// It never returns an error: an unanswerable probe is "not installed".
	Installed(ctx context.Context, pkg string) bool

	// Install installs pkg globally.
	Install(ctx context.Context, pkg string) error
}

// CLI shells out to the npm binary.
type CLI struct {
	log logger.Logger
}

// NewCLI creates the exec-backed Manager.
func NewCLI(log logger.Logger) *CLI {
	if log == nil {
		log = logger.Noop()
	}
	return &CLI{log: log}
}

// Installed checks the global install record via `npm ls -g`. npm exits
// non-zero when the package is absent, so any failure maps to false.
func (c *CLI) Installed(ctx context.Context, pkg string) bool {
	if _, err := exec.LookPath("npm"); err != nil {
		return false
	}

	cmd := exec.CommandContext(ctx, "npm", "ls", "-g", "--depth=0", pkg)
	if err := cmd.Run(); err != nil {
		return false
	}
	c.log.Debug("npm reports global install", "package", pkg)
	return true
}

// Install runs `npm install -g`.
func (c *CLI) Install(ctx context.Context, pkg string) error {
	if _, err := exec.LookPath("npm"); err != nil {
		return ErrUnavailable
	}

	c.log.Info("installing package globally", "package", pkg)
	cmd := exec.CommandContext(ctx, "npm", "install", "-g", pkg)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("npm install -g %s: %w: %s", pkg, err, string(output))
	}
	return nil
}
