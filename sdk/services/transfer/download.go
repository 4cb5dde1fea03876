// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

// Package transfer streams single files from the platform to disk with
// crash-safe rename-on-completion semantics.
package transfer

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
	"github.com/ideafast/dmp-cli-sdk/sdk/services/remote"
	"github.com/ideafast/dmp-cli-sdk/sdk/utils"
)

// ProgressFunc receives the cumulative byte count after each chunk.
type ProgressFunc func(bytesSoFar int64)

// Downloader drives single-file downloads through the remote service.
type Downloader struct {
	remote remote.RemoteFileService
}

func NewDownloader(svc remote.RemoteFileService) *Downloader {
	return &Downloader{remote: svc}
}

// Download streams the identified file to the given absolute
// destination path and returns the transport status code (200 on
// success). Validation failures happen before any network round trip.
//
// Bytes go to a temporary sibling (<name>.tmp) which is renamed over
// the destination only after the stream completes, so the destination
// is never observed half-written; a crash mid-transfer leaves a stray
// .tmp and an untouched destination, safe to retry. A non-200 status
// is returned as-is with nothing written and no error: batch callers
// interpret it.
func (d *Downloader) Download(ctx context.Context, fileID, dest string, progress ProgressFunc) (int, error) {
	if !filepath.IsAbs(dest) {
		return 0, dmperr.Configurationf("expecting an absolute path as destination file, got %q", dest)
	}
	if _, err := uuid.Parse(fileID); err != nil || len(fileID) != 36 {
		return 0, dmperr.Configurationf("not a valid file id: %q", fileID)
	}
	if !d.remote.IsAuthenticated() {
		return 0, dmperr.ErrNotLoggedIn
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, err
	}

	status, body, err := d.remote.StreamFile(ctx, fileID)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		if body != nil {
			body.Close()
		}
		return status, nil
	}
	defer body.Close()

	tmp := dest + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}

	var sizeSoFar int64
	buf := make([]byte, utils.DownloadChunkSize)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				f.Close()
				return 0, werr
			}
			sizeSoFar += int64(n)
			if progress != nil {
				progress(sizeSoFar)
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			f.Close()
			return 0, readErr
		}
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp, dest); err != nil {
		return 0, err
	}
	return status, nil
}
