// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

// Package state implements the durable local state of the DMP client:
// a small JSON document store with atomic replace-and-backup writes,
// the persisted login/session state and the data folder configuration.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// AppState reads and writes named JSON state documents in an
// app-specific folder (~/.<appname>). Writes follow the
// temp / backup / rename protocol, so a state file is never observed
// partially written and the previous value survives in a .bak sibling.
type AppState struct {
	appname string
	home    string
}

// NewAppState creates the store for the given application name,
// creating its home folder if needed. The name must be a bare
// identifier; it becomes part of the folder name.
func NewAppState(appname string) (*AppState, error) {
	if !identRe.MatchString(appname) {
		return nil, dmperr.Configurationf("%q is not a valid app name (expecting an identifier)", appname)
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	home := filepath.Join(userHome, "."+appname)
	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, err
	}
	return &AppState{appname: appname, home: home}, nil
}

// NewAppStateAt is like NewAppState but roots the state folder at an
// explicit directory instead of the user's home. Used by tests and by
// callers that manage their own layout.
func NewAppStateAt(appname, root string) (*AppState, error) {
	if !identRe.MatchString(appname) {
		return nil, dmperr.Configurationf("%q is not a valid app name (expecting an identifier)", appname)
	}
	home := filepath.Join(root, "."+appname)
	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, err
	}
	return &AppState{appname: appname, home: home}, nil
}

// Home returns the folder holding the state files.
func (s *AppState) Home() string { return s.home }

// AppName returns the application name this store was created for.
func (s *AppState) AppName() string { return s.appname }

// StatePath returns the full path of the file backing the named state.
func (s *AppState) StatePath(name string) string {
	return filepath.Join(s.home, name+".json")
}

func (s *AppState) checkName(name string) error {
	if !identRe.MatchString(name) {
		return dmperr.Configurationf("%q is not a valid state identifier", name)
	}
	return nil
}

// Save persists a state document under the given name. Passing nil is
// a soft delete: the current file (if any) rotates to the .bak sibling
// and no new file is written. Otherwise the value is serialized to a
// temporary sibling, the current file rotates to .bak, and the
// temporary file is renamed into place.
func (s *AppState) Save(name string, state any) error {
	if err := s.checkName(name); err != nil {
		return err
	}
	target := s.StatePath(name)
	bak := filepath.Join(s.home, name+".bak")
	if state == nil {
		if _, err := os.Stat(target); err == nil {
			return os.Rename(target, bak)
		}
		return nil
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(s.home, name+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if _, err := os.Stat(target); err == nil {
		if err := os.Rename(target, bak); err != nil {
			return err
		}
	}
	return os.Rename(tmp, target)
}

// Load reads the named state into out (a pointer). It returns false
// with a nil error when no state file exists; callers treat that as
// "use the default". Malformed JSON is a StateCorruptionError.
func (s *AppState) Load(name string, out any) (bool, error) {
	if err := s.checkName(name); err != nil {
		return false, err
	}
	target := s.StatePath(name)
	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, &dmperr.StateCorruptionError{Path: target, Err: err}
	}
	return true, nil
}

// Stamp returns the modification time of the named state file, or
// false if no state is saved.
func (s *AppState) Stamp(name string) (time.Time, bool, error) {
	if err := s.checkName(name); err != nil {
		return time.Time{}, false, err
	}
	info, err := os.Stat(s.StatePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return info.ModTime(), true, nil
}

// Wrap binds this store to a fixed state name.
func (s *AppState) Wrap(name string) (*NamedState, error) {
	if err := s.checkName(name); err != nil {
		return nil, err
	}
	return &NamedState{host: s, name: name}, nil
}

// NamedState combines an AppState with a fixed state name.
type NamedState struct {
	host *AppState
	name string
}

func (n *NamedState) Host() *AppState { return n.host }

func (n *NamedState) Name() string { return n.name }

// Path returns the full path of the backing file.
func (n *NamedState) Path() string { return n.host.StatePath(n.name) }

func (n *NamedState) Save(state any) error { return n.host.Save(n.name, state) }

func (n *NamedState) Load(out any) (bool, error) { return n.host.Load(n.name, out) }

func (n *NamedState) Stamp() (time.Time, bool, error) { return n.host.Stamp(n.name) }

// WriteFileWithBackup applies the store's temp / backup / rename
// protocol to an arbitrary file outside the state folder. The write
// callback receives the temporary file; on success the previous target
// rotates to <target>.bak and the temporary file replaces the target.
func WriteFileWithBackup(target string, write func(f *os.File) error) error {
	tmp := target + ".tmp"
	bak := target + ".bak"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if _, err := os.Stat(target); err == nil {
		if err := os.Rename(target, bak); err != nil {
			return err
		}
	}
	return os.Rename(tmp, target)
}

// SaveJSONWithBackup writes obj as indented JSON to target using the
// temp / backup / rename protocol.
func SaveJSONWithBackup(target string, obj any) error {
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return err
	}
	return WriteFileWithBackup(target, func(f *os.File) error {
		_, werr := f.Write(data)
		return werr
	})
}
