// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package transfer_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
	"github.com/ideafast/dmp-cli-sdk/sdk/services/manifest"
	"github.com/ideafast/dmp-cli-sdk/sdk/services/transfer"
	"github.com/ideafast/dmp-cli-sdk/sdk/state"
)

const validID = "3e7a1a2b-9c4d-4e5f-8a6b-7c8d9e0f1a2b"

// fakeRemote serves one canned file stream.
type fakeRemote struct {
	authed  bool
	status  int
	content []byte
	served  string // last file id requested
}

func (f *fakeRemote) IsAuthenticated() bool { return f.authed }

func (f *fakeRemote) Login(context.Context, string, string, string) (map[string]any, *state.Credential, error) {
	panic("not used")
}

func (f *fakeRemote) UserInfo(context.Context) (map[string]any, error) { panic("not used") }

func (f *fakeRemote) FetchManifest(context.Context, string) ([]manifest.FileRecord, error) {
	panic("not used")
}

func (f *fakeRemote) StreamFile(_ context.Context, fileID string) (int, io.ReadCloser, error) {
	f.served = fileID
	return f.status, io.NopCloser(bytes.NewReader(f.content)), nil
}

func TestDownloadValidation(t *testing.T) {
	dl := transfer.NewDownloader(&fakeRemote{authed: true})
	dest := filepath.Join(t.TempDir(), "out.bin")

	var cfgErr *dmperr.ConfigurationError
	_, err := dl.Download(context.Background(), validID, "relative/out.bin", nil)
	assert.ErrorAs(t, err, &cfgErr)

	_, err = dl.Download(context.Background(), "not-a-uuid", dest, nil)
	assert.ErrorAs(t, err, &cfgErr)

	dl = transfer.NewDownloader(&fakeRemote{authed: false})
	_, err = dl.Download(context.Background(), validID, dest, nil)
	var auth *dmperr.AuthenticationError
	assert.ErrorAs(t, err, &auth)
}

func TestDownloadWritesAndRenames(t *testing.T) {
	content := bytes.Repeat([]byte("x"), 200*1024) // several chunks
	fake := &fakeRemote{authed: true, status: http.StatusOK, content: content}
	dl := transfer.NewDownloader(fake)

	dest := filepath.Join(t.TempDir(), "sub", "dir", "out.bin")
	var progress []int64
	status, err := dl.Download(context.Background(), validID, dest, func(bytesSoFar int64) {
		progress = append(progress, bytesSoFar)
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, validID, fake.served)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	// no temp file left behind
	_, err = os.Stat(dest + ".tmp")
	assert.True(t, os.IsNotExist(err))

	// progress reports cumulative bytes, ending at the full size
	require.NotEmpty(t, progress)
	assert.Equal(t, int64(len(content)), progress[len(progress)-1])
	for i := 1; i < len(progress); i++ {
		assert.Greater(t, progress[i], progress[i-1])
	}
}

func TestDownloadNonOKWritesNothing(t *testing.T) {
	fake := &fakeRemote{authed: true, status: http.StatusNotFound, content: []byte("not the file")}
	dl := transfer.NewDownloader(fake)

	dir := t.TempDir()
	dest := filepath.Join(dir, "out.bin")
	status, err := dl.Download(context.Background(), validID, dest, nil)
	require.NoError(t, err, "a non-200 status is an outcome, not an error")
	assert.Equal(t, http.StatusNotFound, status)

	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(dest + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
