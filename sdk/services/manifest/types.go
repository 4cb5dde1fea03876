// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"path/filepath"
	"strings"
)

// FileRecord describes one remotely-known file, in the JSON shape the
// per-study manifest cache uses. Records are never mutated locally and
// are superseded wholesale when a fresh manifest is fetched.
type FileRecord struct {
	FileID        string `json:"fileId"`
	FileName      string `json:"fileName"`
	FileSize      int64  `json:"fileSize"`
	ParticipantID string `json:"participantId"`
	DeviceKind    string `json:"deviceKind"`
	DeviceID      string `json:"deviceId"`
	TimeStart     string `json:"timeStart,omitempty"`
	TimeEnd       string `json:"timeEnd,omitempty"`
	TimeUpload    string `json:"timeUpload,omitempty"`
	StampStart    int64  `json:"stampStart,omitempty"`
	StampEnd      int64  `json:"stampEnd,omitempty"`
	StampUpload   int64  `json:"stampUpload,omitempty"`
	UploadedBy    string `json:"uploadedBy,omitempty"`
	StudyID       string `json:"studyId,omitempty"`
	StudyName     string `json:"studyName,omitempty"`
}

// DeviceKindOf derives the device kind (the three-letter code prefix)
// from a device id.
func DeviceKindOf(deviceID string) string {
	if len(deviceID) < 3 {
		return deviceID
	}
	return deviceID[:3]
}

// PathName returns the relative path where the file is saved locally:
// <participant>/<device>/<file name>, relative to the data folder.
func (r *FileRecord) PathName() string {
	return filepath.Join(r.ParticipantID, r.DeviceID, r.FileName)
}

// FileSet is an indexed collection of FileRecords, keyed by file id.
// Iteration order is the insertion order.
type FileSet struct {
	records []FileRecord
	byID    map[string]int
}

// NewFileSet indexes the given records. A record whose id was already
// seen replaces the earlier one.
func NewFileSet(records []FileRecord) *FileSet {
	fs := &FileSet{byID: make(map[string]int, len(records))}
	for _, r := range records {
		if idx, ok := fs.byID[r.FileID]; ok {
			fs.records[idx] = r
			continue
		}
		fs.byID[r.FileID] = len(fs.records)
		fs.records = append(fs.records, r)
	}
	return fs
}

func (fs *FileSet) Len() int { return len(fs.records) }

// All returns the records in insertion order. The slice is shared; do
// not mutate it.
func (fs *FileSet) All() []FileRecord { return fs.records }

// ByID finds a record by its full file id.
func (fs *FileSet) ByID(fileID string) (FileRecord, bool) {
	idx, ok := fs.byID[fileID]
	if !ok {
		return FileRecord{}, false
	}
	return fs.records[idx], true
}

// MatchingID returns the records whose lowercase file id starts with
// the given prefix.
func (fs *FileSet) MatchingID(prefix string) []FileRecord {
	prefix = strings.ToLower(prefix)
	var out []FileRecord
	for _, r := range fs.records {
		if strings.HasPrefix(strings.ToLower(r.FileID), prefix) {
			out = append(out, r)
		}
	}
	return out
}

// ProjectIDs returns a new FileSet holding the records for the given
// full file ids; ids that are not present are skipped.
func (fs *FileSet) ProjectIDs(ids []string) *FileSet {
	var out []FileRecord
	for _, id := range ids {
		if r, ok := fs.ByID(id); ok {
			out = append(out, r)
		}
	}
	return NewFileSet(out)
}

// Selector is a tri-state filter dimension:
//   - nil: don't care (no filtering, no grouping)
//   - empty, non-nil: group by this dimension without restricting values
//   - non-empty: restrict to the listed values
//
// The distinction between absent and empty is load-bearing for the
// listing layer built on top of the filter.
type Selector []string

// IsActive reports whether the dimension was mentioned at all.
func (s Selector) IsActive() bool { return s != nil }

// Restricts reports whether the dimension carries values to match.
func (s Selector) Restricts() bool { return len(s) > 0 }

// Query is one filter request against a FileSet.
type Query struct {
	Participants Selector // matched case-insensitively (uppercased)
	Kinds        Selector // matched case-insensitively (uppercased)
	Devices      Selector // matched case-insensitively (uppercased)
	IDPrefixes   Selector // prefix-matched case-insensitively (lowercased)
}

func containsUpper(values []string, v string) bool {
	v = strings.ToUpper(v)
	for _, x := range values {
		if strings.ToUpper(x) == v {
			return true
		}
	}
	return false
}

// Filter returns the records matching every restricting dimension of
// the query. Group-only dimensions (empty non-nil selectors) pass
// everything through.
func Filter(records []FileRecord, q Query) []FileRecord {
	var prefixes []string
	for _, p := range q.IDPrefixes {
		prefixes = append(prefixes, strings.ToLower(p))
	}
	out := make([]FileRecord, 0, len(records))
	for _, r := range records {
		if q.Participants.Restricts() && !containsUpper(q.Participants, r.ParticipantID) {
			continue
		}
		if q.Kinds.Restricts() && !containsUpper(q.Kinds, r.DeviceKind) {
			continue
		}
		if q.Devices.Restricts() && !containsUpper(q.Devices, r.DeviceID) {
			continue
		}
		if len(prefixes) > 0 {
			matched := false
			lowerID := strings.ToLower(r.FileID)
			for _, p := range prefixes {
				if strings.HasPrefix(lowerID, p) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
