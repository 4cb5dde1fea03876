// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"os"
	"path/filepath"

	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
)

// DataCache tracks the location of the data folder — the single root
// under which all manifests and downloaded files live — in a persisted
// setting.
type DataCache struct {
	store *NamedState
	doc   dataCacheDoc
}

type dataCacheDoc struct {
	DataFolder string `json:"data_folder,omitempty"`
}

// NewDataCache loads the data folder configuration backed by the given
// store, initializing an empty one on first use.
func NewDataCache(app *AppState) (*DataCache, error) {
	store, err := app.Wrap("dmp_cache")
	if err != nil {
		return nil, err
	}
	dc := &DataCache{store: store}
	found, err := store.Load(&dc.doc)
	if err != nil {
		return nil, err
	}
	if !found {
		if err := store.Save(&dc.doc); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

// DataFolderRaw returns the configured folder path without validating
// it, or "" when not configured.
func (dc *DataCache) DataFolderRaw() string { return dc.doc.DataFolder }

// IsConfigured reports whether a data folder has been configured.
func (dc *DataCache) IsConfigured() bool { return dc.doc.DataFolder != "" }

// DataFolder validates and returns the data folder path, creating the
// directory if it does not exist yet.
func (dc *DataCache) DataFolder() (string, error) {
	folder := dc.doc.DataFolder
	if folder == "" {
		return "", dmperr.Configurationf("data folder has not been configured yet")
	}
	if !filepath.IsAbs(folder) {
		return "", dmperr.Configurationf("expecting the configured data path to be absolute, but got %q", folder)
	}
	info, err := os.Stat(folder)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		if err := os.Mkdir(folder, 0o755); err != nil {
			return "", err
		}
		return folder, nil
	}
	if !info.IsDir() {
		return "", dmperr.Configurationf("%q is not a folder", folder)
	}
	return folder, nil
}

// Configure sets (or replaces) the data folder path, which must be
// absolute. The directory is created if missing and the setting is
// persisted before returning.
func (dc *DataCache) Configure(folder string) error {
	if !filepath.IsAbs(folder) {
		return dmperr.Configurationf("expecting an absolute path but got %q", folder)
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return err
	}
	dc.doc.DataFolder = filepath.Clean(folder)
	return dc.store.Save(&dc.doc)
}
