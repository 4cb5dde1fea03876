// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
	"github.com/ideafast/dmp-cli-sdk/sdk/state"
)

func userPayload(username string, studyIDs ...string) map[string]any {
	var studies []any
	for _, id := range studyIDs {
		studies = append(studies, map[string]any{"id": id, "name": "Study " + id})
	}
	return map[string]any{
		"id":       "user-" + username,
		"username": username,
		"access":   map[string]any{"studies": studies},
	}
}

func cookieCred(v string) *state.Credential {
	return &state.Credential{Kind: state.CredentialCookie, Value: v}
}

func newLogin(t *testing.T, app *state.AppState) *state.LoginState {
	t.Helper()
	ls, err := state.NewLoginState(app)
	require.NoError(t, err)
	return ls
}

func TestLoginLifecycle(t *testing.T) {
	app := newTestStore(t)
	ls := newLogin(t, app)

	assert.False(t, ls.IsLoggedIn())
	assert.False(t, ls.HasUsername())

	require.NoError(t, ls.ChangeUser("alice", cookieCred("s1"), userPayload("alice", "abc-1")))
	assert.True(t, ls.IsLoggedIn())
	assert.Equal(t, "alice", ls.Username())
	assert.Equal(t, "s1", ls.Credential().Value)

	// logout keeps the username, drops credential and info
	require.NoError(t, ls.Logout())
	assert.False(t, ls.IsLoggedIn())
	assert.Equal(t, "alice", ls.Username())
	assert.Nil(t, ls.UserInfo())

	// fresh login for the remembered username
	require.NoError(t, ls.Login(cookieCred("s2"), userPayload("alice", "abc-1")))
	assert.Equal(t, "s2", ls.Credential().Value)
}

func TestLoginStatePersists(t *testing.T) {
	app := newTestStore(t)
	ls := newLogin(t, app)
	require.NoError(t, ls.ChangeUser("alice", cookieCred("s1"), userPayload("alice", "abc-1")))
	require.NoError(t, ls.ChangeStudy("abc"))

	// a second instance over the same folder sees the committed state
	reloaded := newLogin(t, app)
	assert.Equal(t, "alice", reloaded.Username())
	assert.True(t, reloaded.IsLoggedIn())
	assert.Equal(t, "abc-1", reloaded.DefaultStudy())
}

func TestInvalidMutations(t *testing.T) {
	app := newTestStore(t)
	ls := newLogin(t, app)

	var inv *dmperr.InvalidStateError

	// credential without a username
	err := ls.ChangeUser("", cookieCred("s1"), nil)
	assert.ErrorAs(t, err, &inv)

	// info without a credential
	err = ls.ChangeUser("alice", nil, userPayload("alice"))
	assert.ErrorAs(t, err, &inv)

	// login before any username is remembered
	err = ls.Login(cookieCred("s1"), nil)
	assert.ErrorAs(t, err, &inv)
}

func TestForgetUserClearsEverything(t *testing.T) {
	app := newTestStore(t)
	ls := newLogin(t, app)
	require.NoError(t, ls.ChangeUser("alice", cookieCred("s1"), userPayload("alice", "abc-1")))
	require.NoError(t, ls.ChangeStudy("abc"))

	require.NoError(t, ls.ChangeUser("", nil, nil))
	assert.False(t, ls.HasUsername())
	assert.False(t, ls.IsLoggedIn())
	assert.Empty(t, ls.DefaultStudy())

	reloaded := newLogin(t, app)
	assert.False(t, reloaded.HasUsername())
}

func TestChangeStudyResolution(t *testing.T) {
	app := newTestStore(t)
	ls := newLogin(t, app)

	// not logged in: cannot validate a prefix, but clearing is fine
	var auth *dmperr.AuthenticationError
	assert.ErrorAs(t, ls.ChangeStudy("abc"), &auth)
	require.NoError(t, ls.ChangeStudy(""))

	require.NoError(t, ls.ChangeUser("alice", cookieCred("s1"),
		userPayload("alice", "abc-1", "abc-2", "xyz-9")))

	var none *dmperr.NoMatchError
	assert.ErrorAs(t, ls.ChangeStudy("q"), &none)

	var amb *dmperr.AmbiguousMatchError
	err := ls.ChangeStudy("abc")
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, []string{"abc-1", "abc-2"}, amb.Matches)
	assert.Empty(t, ls.DefaultStudy(), "ambiguous prefix must not commit")

	require.NoError(t, ls.ChangeStudy("x"))
	assert.Equal(t, "xyz-9", ls.DefaultStudy())

	// prefixes match case-insensitively
	require.NoError(t, ls.ChangeStudy("ABC-2"))
	assert.Equal(t, "abc-2", ls.DefaultStudy())
}

func TestClearStudyPersists(t *testing.T) {
	app := newTestStore(t)
	ls := newLogin(t, app)
	require.NoError(t, ls.ChangeUser("alice", cookieCred("s1"), userPayload("alice", "abc-1")))
	require.NoError(t, ls.ChangeStudy("abc"))

	// clearing writes through: a reload must not resurrect the study
	require.NoError(t, ls.ChangeStudy(""))
	assert.Empty(t, ls.DefaultStudy())

	reloaded := newLogin(t, app)
	assert.Empty(t, reloaded.DefaultStudy())
	assert.True(t, reloaded.IsLoggedIn(), "clearing the study keeps the session")
}

func TestChangeUserKeepsResolvableStudy(t *testing.T) {
	app := newTestStore(t)
	ls := newLogin(t, app)
	require.NoError(t, ls.ChangeUser("alice", cookieCred("s1"), userPayload("alice", "xyz-9")))
	require.NoError(t, ls.ChangeStudy("xyz"))

	// the new user still has unique access to the selected study
	require.NoError(t, ls.ChangeUser("bob", cookieCred("s2"), userPayload("bob", "xyz-9", "abc-1")))
	assert.Equal(t, "xyz-9", ls.DefaultStudy())

	// a user without that study loses the selection
	require.NoError(t, ls.ChangeUser("carol", cookieCred("s3"), userPayload("carol", "abc-1")))
	assert.Empty(t, ls.DefaultStudy())
}

func TestErase(t *testing.T) {
	app := newTestStore(t)
	ls := newLogin(t, app)
	require.NoError(t, ls.ChangeUser("alice", cookieCred("s1"), nil))

	require.NoError(t, ls.Erase())
	assert.False(t, ls.HasUsername())

	reloaded := newLogin(t, app)
	assert.False(t, reloaded.HasUsername())
}

func TestUserInfoAccessors(t *testing.T) {
	payload := userPayload("alice", "abc-1", "xyz-9")
	payload["firstname"] = "Alice"
	payload["email"] = "alice@example.org"
	payload["createdAt"] = float64(1700000000000)

	info := state.NewUserInfo(payload)
	assert.Equal(t, "user-alice", info.UserID())
	assert.Equal(t, "Alice", info.Firstname())
	assert.Equal(t, "alice@example.org", info.Email())
	assert.Equal(t, "2023-11-14 22:13:20", info.Created())
	assert.Empty(t, info.Expires())
	assert.Equal(t, map[string]string{
		"abc-1": "Study abc-1",
		"xyz-9": "Study xyz-9",
	}, info.Studies())
	assert.Equal(t, []string{"abc-1", "xyz-9"}, info.MatchingStudyIDs(""))
}
