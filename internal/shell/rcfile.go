package shell

import (
	"os"
	"path/filepath"
	"strings"
)

// Line-oriented edit primitives for shell config files. Every mutation is
// a whole-file read-modify-write: the file is read once into a line list,
// transformed in memory, and written back atomically through a temporary
// file in the same directory. Doing the edits in-process avoids external
// stream editors and their platform dialects entirely.

// Exists checks that the path exists and is a regular file.
func Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &FileError{Path: path, Message: "failed to stat file", Cause: err}
	}
	if !info.Mode().IsRegular() {
		return false, &FileError{Path: path, Message: "not a regular file"}
	}
	return true, nil
}

// ReadLines reads the file into a slice of lines. A missing file yields
// an empty slice and no error. The trailing newline, if present, does not
// produce an empty final line.
func ReadLines(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &FileError{Path: path, Message: "failed to read file", Cause: err}
	}
	if len(content) == 0 {
		return nil, nil
	}
	text := strings.TrimSuffix(string(content), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

// WriteLines writes the line list back, newline-terminated, through a
// temporary file that is renamed into place. A crash mid-write never
// leaves a half-written config.
func WriteLines(path string, lines []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &FileError{Path: path, Message: "failed to create parent directory", Cause: err}
	}

	tmpFile, err := os.CreateTemp(dir, ".cwt-tmp-*")
	if err != nil {
		return &FileError{Path: path, Message: "failed to create temporary file", Cause: err}
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath) // no-op after successful rename

	var content string
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return &FileError{Path: path, Message: "failed to write temporary file", Cause: err}
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return &FileError{Path: path, Message: "failed to sync temporary file", Cause: err}
	}
	if err := tmpFile.Close(); err != nil {
		return &FileError{Path: path, Message: "failed to close temporary file", Cause: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return &FileError{Path: path, Message: "failed to rename temporary file", Cause: err}
	}
	return nil
}

// AppendLine appends a single line, creating the file if needed.
func AppendLine(path, line string) error {
	lines, err := ReadLines(path)
	if err != nil {
		return err
	}
	return WriteLines(path, append(lines, line))
}

// HasLineMatching reports whether any line satisfies the match function.
// Read errors count as "no match" so probes stay fail-safe.
func HasLineMatching(path string, match func(string) bool) bool {
	lines, err := ReadLines(path)
	if err != nil {
		return false
	}
	for _, line := range lines {
		if match(line) {
			return true
		}
	}
	return false
}

// RewriteLinesMatching applies rewrite to every line satisfying match and
// returns how many lines changed. The file is only written back when at
// least one line changed.
func RewriteLinesMatching(path string, match func(string) bool, rewrite func(string) string) (int, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return 0, err
	}

	changed := 0
	for i, line := range lines {
		if !match(line) {
			continue
		}
		if updated := rewrite(line); updated != line {
			lines[i] = updated
			changed++
		}
	}

	if changed == 0 {
		return 0, nil
	}
	return changed, WriteLines(path, lines)
}

// DeleteLinesMatching removes every line satisfying match and returns how
// many lines were removed. The file is only written back when at least
// one line was removed.
func DeleteLinesMatching(path string, match func(string) bool) (int, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return 0, err
	}

	kept := lines[:0]
	removed := 0
	for _, line := range lines {
		if match(line) {
			removed++
			continue
		}
		kept = append(kept, line)
	}

	if removed == 0 {
		return 0, nil
	}
	return removed, WriteLines(path, kept)
}
