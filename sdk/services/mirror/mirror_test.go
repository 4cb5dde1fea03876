// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package mirror_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideafast/dmp-cli-sdk/sdk/config"
	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
	"github.com/ideafast/dmp-cli-sdk/sdk/services/mirror"
	"github.com/ideafast/dmp-cli-sdk/sdk/state"
)

func newCache(t *testing.T) (*state.DataCache, string) {
	t.Helper()
	app, err := state.NewAppStateAt("dmpapp", t.TempDir())
	require.NoError(t, err)
	dc, err := state.NewDataCache(app)
	require.NoError(t, err)
	folder := filepath.Join(t.TempDir(), "data")
	require.NoError(t, dc.Configure(folder))
	return dc, folder
}

func TestNewRequiresBucket(t *testing.T) {
	dc, _ := newCache(t)
	_, err := mirror.New(dc, nil, "", "")
	var cfgErr *dmperr.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestMirrorAgainstBucket(t *testing.T) {
	endpoint := os.Getenv("DMP_TEST_S3_ENDPOINT")
	bucket := os.Getenv("DMP_TEST_S3_BUCKET")
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if endpoint == "" || bucket == "" || accessKey == "" || secretKey == "" {
		t.Skip("Missing env vars (DMP_TEST_S3_ENDPOINT, DMP_TEST_S3_BUCKET, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY), skipping integration test.")
	}

	ctx := context.Background()
	client, err := config.NewS3Client(ctx, config.S3Config{
		AccessKey:   accessKey,
		SecretKey:   secretKey,
		Region:      "us-east-1",
		EndpointURL: endpoint,
	})
	require.NoError(t, err)

	dc, folder := newCache(t)
	sub := filepath.Join(folder, "P1", "MMM1")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.bin"), []byte("payload"), 0o644))
	// transient work files never leave the machine
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.bin.tmp"), []byte("junk"), 0o644))

	m, err := mirror.New(dc, client, bucket, "mirror-test/")
	require.NoError(t, err)

	res, err := m.Run(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"mirror-test/P1/MMM1/a.bin"}, res.Uploaded)
	assert.Empty(t, res.Failed)

	// a second pass walks the bucket and skips the size-matched object
	res, err = m.Run(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Uploaded)
	assert.Equal(t, []string{"mirror-test/P1/MMM1/a.bin"}, res.Skipped)
}
