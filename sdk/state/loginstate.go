// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"time"

	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
)

// CredentialKind distinguishes the two interchangeable session
// credential forms the platform issues.
type CredentialKind string

const (
	CredentialCookie CredentialKind = "cookie"
	CredentialToken  CredentialKind = "token"
)

// Credential is a session credential: either the login cookie value or
// an issued access token.
type Credential struct {
	Kind  CredentialKind `json:"kind"`
	Value string         `json:"value"`
}

// loginDoc is the persisted JSON shape of the login state.
type loginDoc struct {
	Username   string         `json:"username,omitempty"`
	Credential *Credential    `json:"credential,omitempty"`
	Info       map[string]any `json:"info,omitempty"`
	Study      string         `json:"study,omitempty"`
}

// LoginState is the persisted login/session state for one application
// name. Every mutation is written through the injected store before
// returning, so no mutation can report success without surviving a
// crash right after.
//
// Invariants: a credential implies a username; forgetting the username
// clears everything else too.
type LoginState struct {
	store *NamedState
	doc   loginDoc
}

// NewLoginState loads (or initializes) the login state backed by the
// given store.
func NewLoginState(app *AppState) (*LoginState, error) {
	store, err := app.Wrap("login")
	if err != nil {
		return nil, err
	}
	ls := &LoginState{store: store}
	if _, err := store.Load(&ls.doc); err != nil {
		return nil, err
	}
	return ls, nil
}

func (ls *LoginState) Username() string { return ls.doc.Username }

func (ls *LoginState) Credential() *Credential { return ls.doc.Credential }

// Info returns the raw cached user payload, or nil.
func (ls *LoginState) Info() map[string]any { return ls.doc.Info }

// UserInfo returns the cached user payload as a UserInfo, or nil when
// no payload is cached.
func (ls *LoginState) UserInfo() *UserInfo {
	if ls.doc.Info == nil {
		return nil
	}
	return NewUserInfo(ls.doc.Info)
}

// DefaultStudy returns the selected default study id, or "".
func (ls *LoginState) DefaultStudy() string { return ls.doc.Study }

// IsLoggedIn reports whether a credential is present. Whether it is
// still valid is up to the server to decide.
func (ls *LoginState) IsLoggedIn() bool { return ls.doc.Credential != nil }

// HasUsername reports whether a username is remembered. The username
// survives logout.
func (ls *LoginState) HasUsername() bool { return ls.doc.Username != "" }

func (ls *LoginState) save() error { return ls.store.Save(&ls.doc) }

// ChangeUser replaces the user identity. An empty username is the
// forget path: credential and info must be nil, and everything
// including the remembered username is cleared. A non-empty username
// replaces all fields; the previously selected default study is kept
// if it still resolves uniquely against the new user's study list.
func (ls *LoginState) ChangeUser(username string, cred *Credential, info map[string]any) error {
	if cred == nil && info != nil {
		return &dmperr.InvalidStateError{Msg: "cannot set login info if there is no login credential"}
	}
	if username == "" {
		if cred != nil {
			return &dmperr.InvalidStateError{Msg: "cannot log in without providing a user name at the same time"}
		}
		ls.doc = loginDoc{}
		return ls.save()
	}
	oldStudy := ls.doc.Study
	ls.doc = loginDoc{
		Username:   username,
		Credential: cred,
		Info:       info,
	}
	if oldStudy != "" {
		if inf := ls.UserInfo(); inf != nil {
			if ids := inf.MatchingStudyIDs(oldStudy); len(ids) == 1 {
				ls.doc.Study = ids[0]
			}
		}
	}
	return ls.save()
}

// Login records a fresh credential for the already-remembered
// username. A nil credential means logout.
func (ls *LoginState) Login(cred *Credential, info map[string]any) error {
	if cred == nil {
		return ls.Logout()
	}
	if ls.doc.Username == "" {
		return &dmperr.InvalidStateError{Msg: "cannot log in without a username (hint: change the user instead)"}
	}
	return ls.ChangeUser(ls.doc.Username, cred, info)
}

// Logout drops the credential and cached info but keeps the username.
func (ls *LoginState) Logout() error {
	return ls.ChangeUser(ls.doc.Username, nil, nil)
}

// ChangeStudy selects the default study by id prefix. An empty prefix
// clears the selection unconditionally (no login required). Otherwise
// the prefix must resolve to exactly one study the current user can
// access.
func (ls *LoginState) ChangeStudy(prefix string) error {
	if prefix == "" {
		ls.doc.Study = ""
		return ls.save()
	}
	info := ls.UserInfo()
	if info == nil {
		return &dmperr.AuthenticationError{Msg: "cannot validate the study id because you are not logged in"}
	}
	ids := info.MatchingStudyIDs(prefix)
	switch len(ids) {
	case 0:
		return &dmperr.NoMatchError{Kind: "study", Prefix: prefix}
	case 1:
		ls.doc.Study = ids[0]
		return ls.save()
	default:
		return &dmperr.AmbiguousMatchError{Kind: "study", Prefix: prefix, Matches: ids}
	}
}

// Erase resets the persisted state to defaults (the old file rotates
// to the backup sibling).
func (ls *LoginState) Erase() error {
	if err := ls.store.Save(nil); err != nil {
		return err
	}
	ls.doc = loginDoc{}
	return nil
}

// Stamp returns when the state was last saved, or false if never.
func (ls *LoginState) Stamp() (time.Time, bool, error) { return ls.store.Stamp() }

// StatePath returns the path of the backing file.
func (ls *LoginState) StatePath() string { return ls.store.Path() }

// Host returns the AppState folder the login state lives in.
func (ls *LoginState) Host() *AppState { return ls.store.Host() }
