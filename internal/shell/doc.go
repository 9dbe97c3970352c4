// Package shell resolves and mutates the user's shell configuration.
//
// This package handles:
//   - Detecting the user's shell (sh, bash, zsh, fish)
//   - Locating the authoritative config file for persistent mutations
//   - Discovering a dedicated aliases file sourced from the main config
//   - Rendering alias and environment-variable lines per shell syntax
//   - Line-level config edits (append, rewrite, delete) done atomically
//
// # Shell Detection
//
// Detection tries multiple methods:
//  1. $SHELL environment variable (most reliable)
//  2. Parent process name detection (fallback, via gopsutil)
//  3. Generic POSIX profile (last resort, never fails)
//
// # Config File Resolution
//
// The resolved files per shell:
//   - bash: ~/.bashrc
//   - zsh: ~/.zshrc
//   - fish: ~/.config/fish/config.fish
//   - sh / unknown: ~/.profile
//
// Resolution is memoized by the Locator so every component in a run
// mutates the same files. When the primary config sources a conventional
// aliases file (~/.aliases, ~/.bash_aliases, ~/.zsh_aliases) and that
// file exists, alias mutations move there; environment variables always
// stay on the primary config.
//
// # Mutation Discipline
//
// All modifications are:
//   - Line-level (whole lines matched by fixed prefixes, never partial edits)
//   - Whole-file read-modify-write on an in-memory line list
//   - Atomic (temp file + rename in the target directory)
package shell
