// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package remote_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideafast/dmp-cli-sdk/sdk/config"
	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
	"github.com/ideafast/dmp-cli-sdk/sdk/services/remote"
	"github.com/ideafast/dmp-cli-sdk/sdk/state"
)

// fakeCore plays the GraphQL endpoint, recording the last request.
type fakeCore struct {
	status  int
	body    any
	cookies map[string]string

	lastVars      map[string]any
	lastPath      string
	authenticated bool
}

func (f *fakeCore) Query(_ context.Context, _ string, variables map[string]any, authenticated bool) (*config.GqlResponse, error) {
	f.lastVars = variables
	f.authenticated = authenticated
	data, err := json.Marshal(f.body)
	if err != nil {
		return nil, err
	}
	return &config.GqlResponse{Status: f.status, Body: data, Cookies: f.cookies}, nil
}

func (f *fakeCore) Stream(_ context.Context, path string, authenticated bool) (int, io.ReadCloser, error) {
	f.lastPath = path
	f.authenticated = authenticated
	return f.status, io.NopCloser(strings.NewReader("stream")), nil
}

func newLoggedIn(t *testing.T) *state.LoginState {
	t.Helper()
	app, err := state.NewAppStateAt("dmpapp", t.TempDir())
	require.NoError(t, err)
	ls, err := state.NewLoginState(app)
	require.NoError(t, err)
	require.NoError(t, ls.ChangeUser("alice",
		&state.Credential{Kind: state.CredentialCookie, Value: "sid-1"},
		map[string]any{"id": "user-1", "username": "alice"}))
	return ls
}

func newLoggedOut(t *testing.T) *state.LoginState {
	t.Helper()
	app, err := state.NewAppStateAt("dmpapp", t.TempDir())
	require.NoError(t, err)
	ls, err := state.NewLoginState(app)
	require.NoError(t, err)
	return ls
}

func TestLoginCapturesSessionCookie(t *testing.T) {
	core := &fakeCore{
		status:  http.StatusOK,
		body:    map[string]any{"data": map[string]any{"login": map[string]any{"id": "user-1", "username": "alice"}}},
		cookies: map[string]string{config.SessionCookieName: "fresh-sid"},
	}
	svc := remote.NewServiceWithCore(core, newLoggedOut(t))

	user, cred, err := svc.Login(context.Background(), "alice", "pw", "123456")
	require.NoError(t, err)
	assert.False(t, core.authenticated, "login must not require prior auth")
	assert.Equal(t, "alice", core.lastVars["username"])
	assert.Equal(t, "alice", user["username"])
	require.NotNil(t, cred)
	assert.Equal(t, state.CredentialCookie, cred.Kind)
	assert.Equal(t, "fresh-sid", cred.Value)
}

func TestLoginFailures(t *testing.T) {
	ls := newLoggedOut(t)

	// server rejects the query outright; its error text is surfaced
	core := &fakeCore{
		status: http.StatusUnauthorized,
		body:   map[string]any{"errors": []any{map[string]any{"message": "invalid totp"}}},
	}
	_, _, err := remote.NewServiceWithCore(core, ls).Login(context.Background(), "alice", "pw", "123456")
	var rej *dmperr.RejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, http.StatusUnauthorized, rej.Status)
	assert.Equal(t, "invalid totp", rej.Message)
	assert.Contains(t, rej.Error(), "invalid totp")

	// 200 but no user returned
	core = &fakeCore{status: http.StatusOK, body: map[string]any{"data": map[string]any{"login": nil}}}
	_, _, err = remote.NewServiceWithCore(core, ls).Login(context.Background(), "alice", "pw", "123456")
	var failed *dmperr.LoginFailedError
	assert.ErrorAs(t, err, &failed)

	// user returned but no session cookie issued
	core = &fakeCore{
		status: http.StatusOK,
		body:   map[string]any{"data": map[string]any{"login": map[string]any{"id": "user-1"}}},
	}
	_, _, err = remote.NewServiceWithCore(core, ls).Login(context.Background(), "alice", "pw", "123456")
	var missing *dmperr.MissingCredentialError
	assert.ErrorAs(t, err, &missing)
}

func TestUserInfoRequiresLogin(t *testing.T) {
	core := &fakeCore{status: http.StatusOK, body: map[string]any{}}
	svc := remote.NewServiceWithCore(core, newLoggedOut(t))
	_, err := svc.UserInfo(context.Background())
	var auth *dmperr.AuthenticationError
	assert.ErrorAs(t, err, &auth)
}

func TestUserInfo(t *testing.T) {
	core := &fakeCore{
		status: http.StatusOK,
		body: map[string]any{"data": map[string]any{"getUsers": []any{
			map[string]any{"id": "user-1", "username": "alice"},
		}}},
	}
	svc := remote.NewServiceWithCore(core, newLoggedIn(t))

	user, err := svc.UserInfo(context.Background())
	require.NoError(t, err)
	assert.True(t, core.authenticated)
	assert.Equal(t, "user-1", core.lastVars["userid"])
	assert.Equal(t, "alice", user["username"])
}

func TestFetchManifestReformatsEntries(t *testing.T) {
	description := `{"participantId":"K7X9","deviceId":"MMM1234567","startDate":1690000000000,"endDate":1690086400000}`
	core := &fakeCore{
		status: http.StatusOK,
		body: map[string]any{"data": map[string]any{"getStudy": map[string]any{
			"id":   "study-1",
			"name": "Feasibility",
			"files": []any{map[string]any{
				"id":          "3e7a1a2b-9c4d-4e5f-8a6b-7c8d9e0f1a2b",
				"fileName":    "data.zip",
				"fileSize":    "12345",
				"description": description,
				"uploadTime":  "1690090000000",
				"uploadedBy":  "uploader-1",
				"studyId":     "study-1",
			}},
		}}},
	}
	svc := remote.NewServiceWithCore(core, newLoggedIn(t))

	records, err := svc.FetchManifest(context.Background(), "study-1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "3e7a1a2b-9c4d-4e5f-8a6b-7c8d9e0f1a2b", r.FileID)
	assert.Equal(t, "data.zip", r.FileName)
	assert.Equal(t, int64(12345), r.FileSize)
	assert.Equal(t, "K7X9", r.ParticipantID)
	assert.Equal(t, "MMM", r.DeviceKind)
	assert.Equal(t, "MMM1234567", r.DeviceID)
	assert.Equal(t, int64(1690090000000), r.StampUpload)
	assert.NotEmpty(t, r.TimeUpload)
	assert.Equal(t, "Feasibility", r.StudyName)
}

func TestFetchManifestMissingFilesSection(t *testing.T) {
	core := &fakeCore{
		status: http.StatusOK,
		body:   map[string]any{"data": map[string]any{"getStudy": map[string]any{"id": "study-1"}}},
	}
	ls := newLoggedIn(t)
	svc := remote.NewServiceWithCore(core, ls)

	_, err := svc.FetchManifest(context.Background(), "study-1")
	var missing *dmperr.MissingDataError
	require.ErrorAs(t, err, &missing)

	// the offending payload is kept for diagnosis
	var dump map[string]any
	found, err := ls.Host().Load("last_error_data", &dump)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestStreamFile(t *testing.T) {
	core := &fakeCore{status: http.StatusOK}
	svc := remote.NewServiceWithCore(core, newLoggedIn(t))

	status, body, err := svc.StreamFile(context.Background(), "abc-123")
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "/file/abc-123", core.lastPath)
	assert.True(t, core.authenticated)
}
