package manifest

import (
	"fmt"
	"os"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/0x1NotMe/claude-workspace-tools/internal/logger"
)

// Load returns the built-in defaults merged with the optional Lua overlay
// at path. A missing overlay is normal. A broken overlay is logged and
// ignored: desired-state resolution never aborts a run, matching the
// engine's fall-back-to-safe-default policy.
func Load(path string, log logger.Logger) Manifest {
	if log == nil {
		log = logger.Noop()
	}

	base := Default()

	code, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("overlay unreadable, using built-in defaults", "path", path, "error", err)
		}
		return base
	}

	overlay, err := parseOverlay(string(code))
	if err != nil {
		log.Warn("overlay invalid, using built-in defaults", "path", path, "error", err)
		return base
	}

	return applyOverlay(base, overlay)
}

// overlay holds the user-supplied additions parsed from workspace.lua.
type overlay struct {
	aliases  map[string]string
	env      map[string]string
	disabled []string
}

// ParseError represents an overlay parsing error with a friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// parseOverlay executes the overlay in a sandboxed Lua VM and extracts
// the global "workspace" table.
func parseOverlay(luaCode string) (*overlay, error) {
	L := newSandboxedVM()
	defer L.Close()

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{Message: "Lua syntax error", Detail: err.Error()}
	}

	wsValue := L.GetGlobal("workspace")
	if wsValue.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'workspace' table",
			Detail:  fmt.Sprintf("expected table, got %s", wsValue.Type()),
		}
	}
	table := wsValue.(*lua.LTable)

	result := &overlay{
		aliases: map[string]string{},
		env:     map[string]string{},
	}

	if aliasesVal := table.RawGetString("aliases"); aliasesVal.Type() == lua.LTTable {
		if err := extractStringMap(aliasesVal.(*lua.LTable), result.aliases); err != nil {
			return nil, &ParseError{Message: "invalid 'aliases' table", Detail: err.Error()}
		}
	}

	if envVal := table.RawGetString("env"); envVal.Type() == lua.LTTable {
		if err := extractStringMap(envVal.(*lua.LTable), result.env); err != nil {
			return nil, &ParseError{Message: "invalid 'env' table", Detail: err.Error()}
		}
	}

	if extVal := table.RawGetString("extensions"); extVal.Type() == lua.LTTable {
		var extractErr error
		extVal.(*lua.LTable).ForEach(func(key, value lua.LValue) {
			if extractErr != nil {
				return
			}
			keyStr, ok := key.(lua.LString)
			if !ok {
				extractErr = fmt.Errorf("extension key must be a string, got %s", key.Type())
				return
			}
			enabled, ok := value.(lua.LBool)
			if !ok {
				extractErr = fmt.Errorf("extension %q must map to a boolean, got %s", keyStr, value.Type())
				return
			}
			if !bool(enabled) {
				result.disabled = append(result.disabled, string(keyStr))
			}
		})
		if extractErr != nil {
			return nil, &ParseError{Message: "invalid 'extensions' table", Detail: extractErr.Error()}
		}
	}

	sort.Strings(result.disabled)
	return result, nil
}

// extractStringMap copies a Lua table of string keys to string values
// into dst.
func extractStringMap(table *lua.LTable, dst map[string]string) error {
	var extractErr error
	table.ForEach(func(key, value lua.LValue) {
		if extractErr != nil {
			return
		}
		keyStr, ok := key.(lua.LString)
		if !ok {
			extractErr = fmt.Errorf("key must be a string, got %s", key.Type())
			return
		}
		valueStr, ok := value.(lua.LString)
		if !ok {
			extractErr = fmt.Errorf("value for %q must be a string, got %s", keyStr, value.Type())
			return
		}
		dst[string(keyStr)] = string(valueStr)
	})
	return extractErr
}

// applyOverlay merges overlay entries into the defaults. Entries with a
// name already present override in place so ordering stays stable; new
// names append in sorted order for deterministic runs.
func applyOverlay(base Manifest, ov *overlay) Manifest {
	base.Aliases = mergeAliases(base.Aliases, ov.aliases)
	base.EnvVars = mergeEnvVars(base.EnvVars, ov.env)
	base.DisabledExtensions = append(base.DisabledExtensions, ov.disabled...)
	return base
}

func mergeAliases(existing []Alias, updates map[string]string) []Alias {
	pending := map[string]string{}
	for name, command := range updates {
		pending[name] = command
	}
	for i, alias := range existing {
		if command, ok := pending[alias.Name]; ok {
			existing[i].Command = command
			delete(pending, alias.Name)
		}
	}
	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		existing = append(existing, Alias{Name: name, Command: pending[name]})
	}
	return existing
}

func mergeEnvVars(existing []EnvVar, updates map[string]string) []EnvVar {
	pending := map[string]string{}
	for name, value := range updates {
		pending[name] = value
	}
	for i, envVar := range existing {
		if value, ok := pending[envVar.Name]; ok {
			existing[i].Value = value
			delete(pending, envVar.Name)
		}
	}
	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		existing = append(existing, EnvVar{Name: name, Value: pending[name]})
	}
	return existing
}
