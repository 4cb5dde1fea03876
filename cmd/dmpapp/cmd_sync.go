// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/ideafast/dmp-cli-sdk/sdk/services/manifest"
	"github.com/ideafast/dmp-cli-sdk/sdk/services/sync"
	"github.com/ideafast/dmp-cli-sdk/sdk/services/transfer"
	"github.com/ideafast/dmp-cli-sdk/sdk/utils"
)

var (
	syncStudy        string
	syncParticipants []string
	syncKinds        []string
	syncDevices      []string
	syncIDs          []string
	syncCap          int
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download outdated files into the data folder",
	Long: `Compares the selected slice of the cached manifest against the data
folder and downloads the files that are missing or stale, smallest
first. The batch is capped (default 1); run again to continue. Filter
flags work like in "list".

A file counts as up to date when it exists at its mapped path with the
declared size and a modification time no older than the upload stamp.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	f := syncCmd.Flags()
	f.StringVarP(&syncStudy, "study", "s", "", "Study id prefix (default: the selected study)")
	f.StringSliceVarP(&syncParticipants, "participant", "p", nil, "Participant ids")
	f.StringSliceVarP(&syncKinds, "kind", "k", nil, "Device kinds")
	f.StringSliceVarP(&syncDevices, "device", "d", nil, "Device ids")
	f.StringSliceVar(&syncIDs, "id", nil, "File id prefixes")
	f.IntVar(&syncCap, "cap", utils.DefaultSyncCap, "Max downloads this run (0 or less: unbounded)")
}

func runSync(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	studyID, set, err := env.loadStudyManifest(syncStudy)
	if err != nil {
		return err
	}

	q := manifest.Query{
		Participants: selectorFlag(cmd, "participant", syncParticipants),
		Kinds:        selectorFlag(cmd, "kind", syncKinds),
		Devices:      selectorFlag(cmd, "device", syncDevices),
		IDPrefixes:   selectorFlag(cmd, "id", syncIDs),
	}
	selection := manifest.NewFileSet(manifest.Filter(set.All(), q))

	limit := syncCap
	if limit <= 0 {
		limit = math.MaxInt
	}

	var gp utils.GlobalProgress
	hooks := &sync.Hooks{
		OnDownloadStart: func(rec manifest.FileRecord, relPath string) {
			fmt.Printf("  %s (%s)\n", relPath, utils.HumanBytes(rec.FileSize))
			gp = utils.GlobalProgress{TotalKnown: true, TotalBytes: rec.FileSize}
		},
		Progress: func(rec manifest.FileRecord) transfer.ProgressFunc {
			return func(bytesSoFar int64) {
				gp.Set(bytesSoFar)
				gp.Render(false)
			}
		},
		OnDownloadDone: func(st sync.FileStatus) {
			gp.Done()
			if st.OK() {
				okf("  done")
			} else if st.Err != nil {
				warnf("  failed: %v", st.Err)
			} else {
				warnf("  server returned status %d", st.Status)
			}
		},
	}

	rec := sync.NewReconciler(env.cache, env.db, env.svc)
	report, err := rec.Run(cmd.Context(), selection, limit, hooks)
	if err != nil {
		return err
	}

	printSyncReport(studyID, selection.Len(), report)
	return nil
}

func printSyncReport(studyID string, selected int, report *sync.Report) {
	done := 0
	for _, st := range report.Attempted {
		if st.OK() {
			done++
		}
	}
	heading(fmt.Sprintf("Study %s: %d selected, %d attempted, %d completed",
		studyID, selected, len(report.Attempted), done))

	if len(report.Rejected) > 0 {
		warnf("%d local path(s) claimed by multiple files, none of them downloaded:", len(report.Rejected))
		for path, group := range report.Rejected {
			var ids []string
			for _, r := range group {
				ids = append(ids, shortID(r.FileID))
			}
			warnf("  %s <- %v", path, ids)
		}
	}
	if report.Remaining > 0 {
		fmt.Printf("%d outdated file(s) remaining, run sync again to continue.\n", report.Remaining)
	}
}
