// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ideafast/dmp-cli-sdk/sdk/config"
)

var (
	confServer    string
	confBucket    string
	confRegion    string
	confEndpoint  string
	confAccessKey string
	confSecretKey string
)

var configureCmd = &cobra.Command{
	Use:   "configure [data-folder]",
	Short: "Configure the data folder and installation settings",
	Long: `Sets the data folder - the absolute path under which all manifests
and downloaded files live - and optionally updates the installation
settings (server host, mirror credentials), which are persisted to
` + config.IniName + ` in your home folder.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigure,
}

func init() {
	f := configureCmd.Flags()
	f.StringVar(&confServer, "server", "", "Platform server host")
	f.StringVar(&confBucket, "bucket", "", "Mirror bucket name")
	f.StringVar(&confRegion, "region", "", "Mirror bucket region")
	f.StringVar(&confEndpoint, "endpoint", "", "S3-compatible endpoint URL")
	f.StringVar(&confAccessKey, "access-key", "", "Mirror access key id")
	f.StringVar(&confSecretKey, "secret-key", "", "Mirror secret access key")
}

func runConfigure(cmd *cobra.Command, args []string) error {
	changed := false
	setKey := func(flag, key, value string) {
		if cmd.Flags().Changed(flag) {
			viper.Set(key, value)
			changed = true
		}
	}
	setKey("server", config.KeyServer, confServer)
	setKey("bucket", config.KeyMirrorBucket, confBucket)
	setKey("region", config.KeyAwsRegion, confRegion)
	setKey("endpoint", config.KeyAwsEndpoint, confEndpoint)
	setKey("access-key", config.KeyAwsAccessKey, confAccessKey)
	setKey("secret-key", config.KeyAwsSecretKey, confSecretKey)

	if changed {
		if err := config.WriteIniFromStruct(); err != nil {
			return err
		}
		okf("Settings saved.")
	}

	if len(args) == 1 {
		env, err := openEnv()
		if err != nil {
			return err
		}
		if err := env.cache.Configure(args[0]); err != nil {
			return err
		}
		okf("Data folder set to %s", args[0])
	} else if !changed {
		env, err := openEnv()
		if err != nil {
			return err
		}
		heading("Configuration")
		kv("Server", env.conf.Core.Server)
		kv("Data folder", env.cache.DataFolderRaw())
		kv("Mirror bucket", env.conf.S3.Bucket)
	}
	return nil
}
