// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

// Package manifest maintains the local cache of per-study file
// manifests: the JSON "database" of what exists on the server, plus a
// CSV mirror for human inspection.
package manifest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
	"github.com/ideafast/dmp-cli-sdk/sdk/state"
	"github.com/ideafast/dmp-cli-sdk/sdk/utils"
)

// FileDB reads and writes the per-study manifest caches stored in the
// data folder.
type FileDB struct {
	cache *state.DataCache
}

func NewFileDB(cache *state.DataCache) *FileDB {
	return &FileDB{cache: cache}
}

// ManifestPath returns the JSON cache file for a study.
func (db *FileDB) ManifestPath(studyID string) (string, error) {
	folder, err := db.cache.DataFolder()
	if err != nil {
		return "", err
	}
	return filepath.Join(folder, fmt.Sprintf("study.%s.files.json", studyID)), nil
}

// LoadManifest loads the cached manifest for a study. A missing cache
// file is not an error: it returns (nil, false, nil), the expected
// state before the first remote refresh.
func (db *FileDB) LoadManifest(studyID string) (*FileSet, bool, error) {
	path, err := db.ManifestPath(studyID)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var records []FileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, &dmperr.StateCorruptionError{Path: path, Err: err}
	}
	return NewFileSet(records), true, nil
}

// SaveManifest atomically replaces the JSON manifest cache for a study
// and writes the CSV mirror next to it. The CSV export is best-effort:
// its failure is reported to stderr but does not roll back the JSON
// write.
func (db *FileDB) SaveManifest(studyID string, records []FileRecord) error {
	path, err := db.ManifestPath(studyID)
	if err != nil {
		return err
	}
	if err := state.SaveJSONWithBackup(path, records); err != nil {
		return err
	}
	csvPath := filepath.Join(filepath.Dir(path), fmt.Sprintf("study.%s.files.csv", studyID))
	if err := saveCSV(csvPath, records); err != nil {
		utils.Warnf("could not write CSV mirror %s: %v", csvPath, err)
	}
	return nil
}

func saveCSV(path string, records []FileRecord) error {
	return state.WriteFileWithBackup(path, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write(utils.ManifestColumns); err != nil {
			return err
		}
		for _, r := range records {
			row := []string{
				r.ParticipantID,
				r.DeviceKind,
				r.DeviceID,
				r.FileName,
				r.TimeStart,
				r.TimeEnd,
				r.TimeUpload,
				strconv.FormatInt(r.FileSize, 10),
				r.FileID,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}

// IsUpToDate reports whether the local copy of the file exists at its
// mapped path with the exact declared size and a modification time not
// older than the upload stamp. The time comparison is done at
// one-second granularity.
func (db *FileDB) IsUpToDate(r *FileRecord) (bool, error) {
	folder, err := db.cache.DataFolder()
	if err != nil {
		return false, err
	}
	info, err := os.Stat(filepath.Join(folder, r.PathName()))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() || info.Size() != r.FileSize {
		return false, nil
	}
	return info.ModTime().Unix() >= r.StampUpload/1000, nil
}
