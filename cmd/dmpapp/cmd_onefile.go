// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
	"github.com/ideafast/dmp-cli-sdk/sdk/services/transfer"
	"github.com/ideafast/dmp-cli-sdk/sdk/utils"
)

var (
	onefileStudy string
	onefileOut   string
)

var onefileCmd = &cobra.Command{
	Use:   "onefile <file-id-prefix>",
	Short: "Download a single file by id prefix",
	Long: `Downloads one file from the cached manifest, bypassing the up-to-date
check. The prefix must resolve to exactly one file. By default the file
is written as <participant>-<device>-<name> in the data folder root;
--out overrides the destination (relative paths resolve against the
data folder).`,
	Args: cobra.ExactArgs(1),
	RunE: runOnefile,
}

func init() {
	f := onefileCmd.Flags()
	f.StringVarP(&onefileStudy, "study", "s", "", "Study id prefix (default: the selected study)")
	f.StringVarP(&onefileOut, "out", "o", "", "Destination file path")
}

func runOnefile(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	_, set, err := env.loadStudyManifest(onefileStudy)
	if err != nil {
		return err
	}

	matches := set.MatchingID(args[0])
	switch len(matches) {
	case 0:
		return &dmperr.NoMatchError{Kind: "file", Prefix: args[0]}
	case 1:
	default:
		ids := make([]string, len(matches))
		for i, r := range matches {
			ids[i] = r.FileID
		}
		return &dmperr.AmbiguousMatchError{Kind: "file", Prefix: args[0], Matches: ids}
	}
	rec := matches[0]

	folder, err := env.cache.DataFolder()
	if err != nil {
		return err
	}
	dest := onefileOut
	if dest == "" {
		dest = fmt.Sprintf("%s-%s-%s", rec.ParticipantID, rec.DeviceID, rec.FileName)
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(folder, dest)
	}

	fmt.Printf("Downloading %s (%s)\n", rec.PathName(), utils.HumanBytes(rec.FileSize))
	gp := utils.GlobalProgress{TotalKnown: true, TotalBytes: rec.FileSize}
	dl := transfer.NewDownloader(env.svc)
	status, err := dl.Download(cmd.Context(), rec.FileID, dest, func(bytesSoFar int64) {
		gp.Set(bytesSoFar)
		gp.Render(false)
	})
	gp.Done()
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &dmperr.RejectedError{Status: status}
	}
	okf("Saved to %s", dest)
	return nil
}
