// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

// Package mirror replicates the local data folder to an S3-compatible
// bucket, skipping objects that already match by size.
package mirror

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ideafast/dmp-cli-sdk/sdk/config"
	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
	"github.com/ideafast/dmp-cli-sdk/sdk/state"
)

// Result summarizes one mirror pass.
type Result struct {
	Uploaded []string // keys written this pass
	Skipped  []string // keys already current in the bucket
	Failed   map[string]error
	Bytes    int64 // bytes uploaded
}

// Mirror pushes the data folder tree into a bucket. Keys are the
// file paths relative to the data folder, slash-separated, under an
// optional prefix.
type Mirror struct {
	cache  *state.DataCache
	client *config.S3Client
	bucket string
	prefix string
}

func New(cache *state.DataCache, client *config.S3Client, bucket, prefix string) (*Mirror, error) {
	if bucket == "" {
		return nil, &dmperr.ConfigurationError{Msg: "no mirror bucket configured"}
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Mirror{cache: cache, client: client, bucket: bucket, prefix: prefix}, nil
}

// transient state files never belong in the mirror
func isWorkFile(name string) bool {
	return strings.HasSuffix(name, ".tmp") || strings.HasSuffix(name, ".bak")
}

// Run walks the data folder and uploads every regular file whose
// remote counterpart is absent or differs in size. Per-file upload
// failures are collected, not escalated.
func (m *Mirror) Run(ctx context.Context, hook *config.ProgressHook) (*Result, error) {
	folder, err := m.cache.DataFolder()
	if err != nil {
		return nil, err
	}

	remoteSizes := map[string]int64{}
	err = m.client.WalkPrefix(ctx, m.bucket, m.prefix, 1000, func(obj s3types.Object) error {
		remoteSizes[aws.ToString(obj.Key)] = aws.ToInt64(obj.Size)
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &Result{Failed: map[string]error{}}
	walkErr := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || isWorkFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(folder, path)
		if err != nil {
			return err
		}
		key := m.prefix + filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if size, ok := remoteSizes[key]; ok && size == info.Size() {
			res.Skipped = append(res.Skipped, key)
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			res.Failed[key] = err
			return nil
		}
		defer f.Close()
		if err := m.client.UploadFileWithProgress(ctx, m.bucket, key, f, hook); err != nil {
			res.Failed[key] = err
			return nil
		}
		res.Uploaded = append(res.Uploaded, key)
		res.Bytes += info.Size()
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return res, nil
}
