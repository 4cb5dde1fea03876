// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

// Package remote implements the RemoteFileService capability over the
// platform's GraphQL endpoint: login, user info, per-study manifest
// discovery and streaming file access.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ideafast/dmp-cli-sdk/sdk/config"
	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
	"github.com/ideafast/dmp-cli-sdk/sdk/services/manifest"
	"github.com/ideafast/dmp-cli-sdk/sdk/state"
)

// stateCredentials adapts the persisted login state to the HTTP core's
// credential provider.
type stateCredentials struct {
	login *state.LoginState
}

func (sc *stateCredentials) IsLoggedIn() bool { return sc.login.IsLoggedIn() }

func (sc *stateCredentials) AddHeaders(h http.Header) {
	cred := sc.login.Credential()
	if cred == nil {
		return
	}
	switch cred.Kind {
	case state.CredentialToken:
		h.Set("Authorization", "Bearer "+cred.Value)
	default:
		h.Set("Cookie", config.SessionCookieName+"="+cred.Value)
	}
}

// Service is the one RemoteFileService implementation, backed by a
// CoreGraphQL transport and the persisted login state.
type Service struct {
	core  config.CoreGraphQL
	login *state.LoginState
}

var _ RemoteFileService = (*Service)(nil)

// NewService builds the service from configuration. A nil httpClient
// uses the default client.
func NewService(httpClient *http.Client, conf config.Config, login *state.LoginState) *Service {
	core := config.NewGraphQLCore(httpClient, conf.Core, &stateCredentials{login: login})
	return &Service{core: core, login: login}
}

// NewServiceWithCore wires an explicit transport, for tests.
func NewServiceWithCore(core config.CoreGraphQL, login *state.LoginState) *Service {
	return &Service{core: core, login: login}
}

func (s *Service) IsAuthenticated() bool { return s.login.IsLoggedIn() }

func dictGet(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	v, _ := m[key].(map[string]any)
	return v
}

// Login requests a new session from the server. It does not touch the
// persisted state; the caller decides what to record.
func (s *Service) Login(ctx context.Context, username, password, totp string) (map[string]any, *state.Credential, error) {
	variables := map[string]any{
		"username": username,
		"password": password,
		"totp":     totp,
	}
	resp, err := s.core.Query(ctx, loginQuery, variables, false)
	if err != nil {
		return nil, nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, nil, &dmperr.RejectedError{Status: resp.Status, Message: config.ResponseMessage(resp.Body)}
	}
	var content map[string]any
	if err := json.Unmarshal(resp.Body, &content); err != nil {
		return nil, nil, fmt.Errorf("invalid login response: %w", err)
	}
	user := dictGet(dictGet(content, "data"), "login")
	if user == nil {
		return nil, nil, &dmperr.LoginFailedError{}
	}
	sid, ok := resp.Cookies[config.SessionCookieName]
	if !ok || sid == "" {
		return nil, nil, &dmperr.MissingCredentialError{}
	}
	return user, &state.Credential{Kind: state.CredentialCookie, Value: sid}, nil
}

// UserInfo fetches the information record of the currently logged in
// user.
func (s *Service) UserInfo(ctx context.Context) (map[string]any, error) {
	if !s.login.IsLoggedIn() {
		return nil, dmperr.ErrNotLoggedIn
	}
	info := s.login.UserInfo()
	userID := info.UserID()
	if userID == "" {
		return nil, dmperr.ErrNotLoggedIn
	}
	resp, err := s.core.Query(ctx, userInfoQuery, map[string]any{"userid": userID}, true)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, &dmperr.RejectedError{Status: resp.Status, Message: config.ResponseMessage(resp.Body)}
	}
	var content map[string]any
	if err := json.Unmarshal(resp.Body, &content); err != nil {
		return nil, fmt.Errorf("invalid user info response: %w", err)
	}
	users, _ := dictGet(content, "data")["getUsers"].([]any)
	if len(users) == 0 {
		return nil, &dmperr.MissingDataError{What: "user information"}
	}
	user, _ := users[0].(map[string]any)
	if user == nil {
		return nil, &dmperr.MissingDataError{What: "user information"}
	}
	return user, nil
}

// FetchManifest fetches the file list declared for a study, reshaping
// each server entry (with its embedded description JSON) into a
// FileRecord.
func (s *Service) FetchManifest(ctx context.Context, studyID string) ([]manifest.FileRecord, error) {
	if !s.login.IsLoggedIn() {
		return nil, dmperr.ErrNotLoggedIn
	}
	resp, err := s.core.Query(ctx, studyFilesQuery, map[string]any{"studyId": studyID}, true)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, &dmperr.RejectedError{Status: resp.Status, Message: config.ResponseMessage(resp.Body)}
	}
	var content map[string]any
	if err := json.Unmarshal(resp.Body, &content); err != nil {
		return nil, fmt.Errorf("invalid study files response: %w", err)
	}
	study := dictGet(dictGet(content, "data"), "getStudy")
	studyName, _ := study["name"].(string)
	files, ok := study["files"].([]any)
	if !ok {
		// keep the offending payload around for diagnosis
		_ = s.login.Host().Save("last_error_data", content)
		return nil, &dmperr.MissingDataError{What: "file information (dump saved to state \"last_error_data\")"}
	}
	records := make([]manifest.FileRecord, 0, len(files))
	for _, item := range files {
		fe, ok := item.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, reformatFileEntry(fe, studyName))
	}
	return records, nil
}

// StreamFile opens a streaming GET for one file.
func (s *Service) StreamFile(ctx context.Context, fileID string) (int, io.ReadCloser, error) {
	if !s.login.IsLoggedIn() {
		return 0, nil, dmperr.ErrNotLoggedIn
	}
	return s.core.Stream(ctx, "/file/"+fileID, true)
}
