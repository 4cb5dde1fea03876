// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package utils

const (
	// DefaultAppName names the per-user state folder (~/.dmpapp).
	DefaultAppName = "dmpapp"

	// DownloadChunkSize is the read size for streaming file downloads.
	DownloadChunkSize = 64 * 1024

	// DefaultSyncCap is the download cap applied when none is given.
	DefaultSyncCap = 1
)

// ManifestColumns is the fixed column order of the CSV mirror written
// next to each per-study manifest.
var ManifestColumns = []string{
	"participant",
	"devicekind",
	"device",
	"file_name",
	"t_start",
	"t_end",
	"t_upload",
	"file_size",
	"file_id",
}
