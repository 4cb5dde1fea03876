// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files [study-prefix...]",
	Short: "Refresh the cached file manifest of one or more studies",
	Long: `Fetches the declared file list of each given study (the default study
when none is given) and replaces the local manifest cache:
study.<id>.files.json in the data folder, plus a CSV mirror.`,
	RunE: runFiles,
}

func runFiles(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}

	prefixes := args
	if len(prefixes) == 0 {
		prefixes = []string{""} // default study
	}

	for _, prefix := range prefixes {
		studyID, err := env.resolveStudy(prefix)
		if err != nil {
			return err
		}
		records, err := env.svc.FetchManifest(cmd.Context(), studyID)
		if err != nil {
			return err
		}
		if err := env.db.SaveManifest(studyID, records); err != nil {
			return err
		}
		path, _ := env.db.ManifestPath(studyID)
		okf("Study %s: %d files cached (%s)", studyID, len(records), path)
	}
	return nil
}
