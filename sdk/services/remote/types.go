// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"io"

	"github.com/ideafast/dmp-cli-sdk/sdk/services/manifest"
	"github.com/ideafast/dmp-cli-sdk/sdk/state"
)

// RemoteFileService is the platform capability the sync core consumes:
// authentication, manifest discovery and file streaming.
type RemoteFileService interface {
	// IsAuthenticated reports whether a credential is available,
	// independent of its server-side validity.
	IsAuthenticated() bool
	// Login obtains a fresh session for the given user. Returns the
	// raw user payload and the issued credential.
	Login(ctx context.Context, username, password, totp string) (map[string]any, *state.Credential, error)
	// UserInfo fetches the current user's information record.
	UserInfo(ctx context.Context) (map[string]any, error)
	// FetchManifest fetches the declared file list of a study.
	FetchManifest(ctx context.Context, studyID string) ([]manifest.FileRecord, error)
	// StreamFile opens a streaming GET for one file. The caller owns
	// the returned body (which is nil unless the status is 200).
	StreamFile(ctx context.Context, fileID string) (int, io.ReadCloser, error)
}

// The GraphQL query texts the service sends. They are opaque payloads
// as far as the SDK is concerned; the server defines their schema.
const (
	loginQuery = `mutation login($username: String!, $password: String!, $totp: String!) {
  login(username: $username, password: $password, totp: $totp) {
    id
    username
    firstname
    lastname
    email
    createdAt
    expiredAt
    access {
      studies {
        id
        name
      }
    }
  }
}`

	userInfoQuery = `query getUsers($userid: String!) {
  getUsers(userId: $userid) {
    id
    username
    firstname
    lastname
    email
    createdAt
    expiredAt
    access {
      studies {
        id
        name
      }
    }
  }
}`

	studyFilesQuery = `query getStudy($studyId: String!) {
  getStudy(studyId: $studyId) {
    id
    name
    files {
      id
      fileName
      fileSize
      description
      uploadTime
      uploadedBy
      studyId
    }
  }
}`
)
