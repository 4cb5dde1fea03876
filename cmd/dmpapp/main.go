// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

// dmpapp is the command-line client for the IDEA-FAST data management
// platform: login/session handling, per-study manifest caching, and
// capped synchronization of remote files into a local data folder.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ideafast/dmp-cli-sdk/sdk/config"
)

var rootCmd = &cobra.Command{
	Use:   "dmpapp",
	Short: "Data management platform client",
	Long: `dmpapp talks to the IDEA-FAST data management platform.

It keeps track of your login session, caches per-study file manifests
in a local data folder, and downloads the files you select - resumably,
in small capped batches.

Typical session:
  dmpapp configure /data/dmp     # choose the data folder
  dmpapp login alice             # obtain a session
  dmpapp study idfe              # pick the default study
  dmpapp files                   # refresh the manifest cache
  dmpapp sync --cap 5            # download up to 5 outdated files`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.RegisterIniWithViper()
	},
}

func init() {
	rootCmd.AddCommand(
		stateCmd,
		configureCmd,
		loginCmd,
		logoutCmd,
		refreshCmd,
		studyCmd,
		filesCmd,
		listCmd,
		syncCmd,
		onefileCmd,
		mirrorCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		errorf("%v", err)
		os.Exit(1)
	}
}
