// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ideafast/dmp-cli-sdk/sdk/config"
	"github.com/ideafast/dmp-cli-sdk/sdk/services/mirror"
	"github.com/ideafast/dmp-cli-sdk/sdk/utils"
)

var (
	mirrorBucket string
	mirrorPrefix string
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Replicate the data folder to an S3 bucket",
	Long: `Uploads the contents of the data folder to an S3-compatible bucket,
keyed by relative path. Objects that already match by size are skipped,
so repeated runs only transfer what changed. Credentials and endpoint
come from the settings (or the usual AWS environment variables).`,
	Args: cobra.NoArgs,
	RunE: runMirror,
}

func init() {
	f := mirrorCmd.Flags()
	f.StringVar(&mirrorBucket, "bucket", "", "Bucket name (default: the configured mirror bucket)")
	f.StringVar(&mirrorPrefix, "prefix", "", "Key prefix inside the bucket")
}

func runMirror(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}

	bucket := mirrorBucket
	if bucket == "" {
		bucket = env.conf.S3.Bucket
	}

	client, err := config.NewS3Client(cmd.Context(), env.conf.S3)
	if err != nil {
		return err
	}
	m, err := mirror.New(env.cache, client, bucket, mirrorPrefix)
	if err != nil {
		return err
	}

	var gp utils.GlobalProgress
	hook := &config.ProgressHook{
		OnStart: func(key string, total int64) {
			fmt.Printf("  %s (%s)\n", key, utils.HumanBytes(total))
			gp = utils.GlobalProgress{TotalKnown: true, TotalBytes: total}
		},
		OnProgress: func(key string, written, total int64) {
			gp.Set(written)
			gp.Render(false)
		},
		OnDone: func(key string, total int64, took time.Duration) {
			gp.Done()
		},
	}

	res, err := m.Run(cmd.Context(), hook)
	if err != nil {
		return err
	}

	heading(fmt.Sprintf("Mirror: %d uploaded (%s), %d up to date, %d failed",
		len(res.Uploaded), utils.HumanBytes(res.Bytes), len(res.Skipped), len(res.Failed)))
	for key, ferr := range res.Failed {
		warnf("  %s: %v", key, ferr)
	}
	return nil
}
