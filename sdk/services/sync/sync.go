// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

// Package sync reconciles a remotely-declared file manifest against
// the local data folder and drives the capped, smallest-first download
// batch.
package sync

import (
	"context"
	"net/http"
	"path/filepath"
	"sort"

	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
	"github.com/ideafast/dmp-cli-sdk/sdk/services/manifest"
	"github.com/ideafast/dmp-cli-sdk/sdk/services/remote"
	"github.com/ideafast/dmp-cli-sdk/sdk/services/transfer"
	"github.com/ideafast/dmp-cli-sdk/sdk/state"
)

// FileStatus records the outcome of one attempted download.
type FileStatus struct {
	Record manifest.FileRecord
	Path   string // relative to the data folder
	Status int    // HTTP-style status; 0 when a local error occurred
	Err    error  // local error, nil for plain non-200 statuses
}

// OK reports whether the file completed.
func (fs *FileStatus) OK() bool { return fs.Err == nil && fs.Status == http.StatusOK }

// Report is the full outcome of one reconciliation pass. The pass
// always completes: per-file failures are accumulated, never escalated.
type Report struct {
	// Planned lists the outdated records retained for download, in
	// download order (ascending size).
	Planned []manifest.FileRecord
	// Attempted holds one entry per planned record, in order.
	Attempted []FileStatus
	// Rejected maps each colliding relative path to all records that
	// claim it. None of them were downloaded.
	Rejected map[string][]manifest.FileRecord
	// Remaining counts outdated files dropped by the download limit.
	Remaining int
}

// Hooks lets the caller observe the batch as it runs. All fields are
// optional.
type Hooks struct {
	// OnDownloadStart fires before each file transfer begins.
	OnDownloadStart func(rec manifest.FileRecord, relPath string)
	// Progress builds the per-file progress callback.
	Progress func(rec manifest.FileRecord) transfer.ProgressFunc
	// OnDownloadDone fires after each transfer with its final status.
	OnDownloadDone func(st FileStatus)
}

// Reconciler computes which selected files are missing or stale
// locally and downloads them through the transfer service.
type Reconciler struct {
	db     *manifest.FileDB
	cache  *state.DataCache
	remote remote.RemoteFileService
	dl     *transfer.Downloader
}

func NewReconciler(cache *state.DataCache, db *manifest.FileDB, svc remote.RemoteFileService) *Reconciler {
	return &Reconciler{
		db:     db,
		cache:  cache,
		remote: svc,
		dl:     transfer.NewDownloader(svc),
	}
}

// Plan splits the selection into uniquely-named outdated records
// (sorted ascending by size), the collision rejections, and the count
// dropped by the cap. It performs no downloads.
func (r *Reconciler) Plan(selection *manifest.FileSet, limit int) (*Report, error) {
	report := &Report{Rejected: map[string][]manifest.FileRecord{}}

	// group by local path; any path claimed by more than one distinct
	// file id is rejected in full
	byPath := map[string][]manifest.FileRecord{}
	var paths []string
	for _, rec := range selection.All() {
		p := rec.PathName()
		if _, seen := byPath[p]; !seen {
			paths = append(paths, p)
		}
		byPath[p] = append(byPath[p], rec)
	}
	sort.Strings(paths)

	var outdated []manifest.FileRecord
	for _, p := range paths {
		group := byPath[p]
		if len(group) != 1 {
			report.Rejected[p] = group
			continue
		}
		rec := group[0]
		upToDate, err := r.db.IsUpToDate(&rec)
		if err != nil {
			return nil, err
		}
		if !upToDate {
			outdated = append(outdated, rec)
		}
	}

	// smallest files first: maximizes completed count under the cap
	// and surfaces transfer problems before committing to large files
	sort.SliceStable(outdated, func(i, j int) bool {
		return outdated[i].FileSize < outdated[j].FileSize
	})

	if limit < len(outdated) {
		report.Remaining = len(outdated) - limit
		outdated = outdated[:limit]
	}
	report.Planned = outdated
	return report, nil
}

// Run plans and downloads. Authentication and data folder presence are
// the only hard preconditions; per-file failures do not abort the
// batch.
func (r *Reconciler) Run(ctx context.Context, selection *manifest.FileSet, limit int, hooks *Hooks) (*Report, error) {
	if !r.remote.IsAuthenticated() {
		return nil, dmperr.ErrNotLoggedIn
	}
	folder, err := r.cache.DataFolder()
	if err != nil {
		return nil, err
	}
	report, err := r.Plan(selection, limit)
	if err != nil {
		return nil, err
	}
	if hooks == nil {
		hooks = &Hooks{}
	}

	for _, rec := range report.Planned {
		rel := rec.PathName()
		if hooks.OnDownloadStart != nil {
			hooks.OnDownloadStart(rec, rel)
		}
		var progress transfer.ProgressFunc
		if hooks.Progress != nil {
			progress = hooks.Progress(rec)
		}
		status, err := r.dl.Download(ctx, rec.FileID, filepath.Join(folder, rel), progress)
		st := FileStatus{Record: rec, Path: rel, Status: status, Err: err}
		report.Attempted = append(report.Attempted, st)
		if hooks.OnDownloadDone != nil {
			hooks.OnDownloadDone(st)
		}
	}
	return report, nil
}
