package extension

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

//go:embed payload
var payloadFS embed.FS

// Builtin returns the extensions shipped with the binary. Descriptors are
// constructed fresh each call; the payload files live in the binary.
func Builtin() []Extension {
	return []Extension{
		payloadExtension("custom-commands", "Custom Commands",
			[]string{"commands", "workflow"}),
		payloadExtension("SuperClaude", "SuperClaude Framework",
			[]string{"commands", "framework"}),
	}
}

// CommandsDir returns the install root for an extension's command files.
func CommandsDir(home, id string) string {
	return filepath.Join(home, ".claude", "commands", id)
}

// payloadExtension builds a descriptor for an extension whose install
// action copies its embedded payload directory into the commands dir.
// The marker set is exactly the set of files the install produces.
func payloadExtension(id, displayName string, categories []string) Extension {
	srcDir := "payload/" + id
	return Extension{
		ID:          id,
		DisplayName: displayName,
		Categories:  categories,
		Markers: func(home string) []string {
			return payloadTargets(srcDir, CommandsDir(home, id))
		},
		Install: func(home string) error {
			return deployPayload(srcDir, CommandsDir(home, id))
		},
	}
}

// payloadTargets maps every embedded payload file to its install path.
func payloadTargets(srcDir, destDir string) []string {
	var targets []string
	fs.WalkDir(payloadFS, srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, relErr := filepath.Rel(srcDir, path)
		if relErr != nil {
			return relErr
		}
		targets = append(targets, filepath.Join(destDir, rel))
		return nil
	})
	sort.Strings(targets)
	return targets
}

// deployPayload writes every embedded payload file under destDir,
// overwriting whatever a previous (possibly partial) install left behind.
func deployPayload(srcDir, destDir string) error {
	return fs.WalkDir(payloadFS, srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(srcDir, path)
		if relErr != nil {
			return relErr
		}
		target := filepath.Join(destDir, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		content, readErr := payloadFS.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("read embedded payload %s: %w", path, readErr)
		}
		if mkErr := os.MkdirAll(filepath.Dir(target), 0o755); mkErr != nil {
			return mkErr
		}
		return os.WriteFile(target, content, 0o644)
	})
}
