// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
	"github.com/ideafast/dmp-cli-sdk/sdk/services/manifest"
	"github.com/ideafast/dmp-cli-sdk/sdk/utils"
)

var (
	listStudy        string
	listParticipants []string
	listKinds        []string
	listDevices      []string
	listIDs          []string
	listFormat       string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the cached manifest, filtered and grouped",
	Long: `Lists the cached file manifest of a study. Each filter dimension is
tri-state: leaving a flag out ignores the dimension, passing '*' groups
by it without restricting, and passing values restricts to them.

Examples:
  dmpapp list                      # one summary line
  dmpapp list -p '*'               # grouped per participant
  dmpapp list -p K7X9 -k '*'       # one participant, grouped per kind
  dmpapp list --id 1a2b            # individual files by id prefix
  dmpapp list --format json        # raw records for scripting`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	f := listCmd.Flags()
	f.StringVarP(&listStudy, "study", "s", "", "Study id prefix (default: the selected study)")
	f.StringSliceVarP(&listParticipants, "participant", "p", nil, "Participant ids, or '*' to group")
	f.StringSliceVarP(&listKinds, "kind", "k", nil, "Device kinds, or '*' to group")
	f.StringSliceVarP(&listDevices, "device", "d", nil, "Device ids, or '*' to group")
	f.StringSliceVar(&listIDs, "id", nil, "File id prefixes")
	f.StringVar(&listFormat, "format", "table", "Output format: table, json or yaml")
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	studyID, set, err := env.loadStudyManifest(listStudy)
	if err != nil {
		return err
	}

	q := manifest.Query{
		Participants: selectorFlag(cmd, "participant", listParticipants),
		Kinds:        selectorFlag(cmd, "kind", listKinds),
		Devices:      selectorFlag(cmd, "device", listDevices),
		IDPrefixes:   selectorFlag(cmd, "id", listIDs),
	}
	records := manifest.Filter(set.All(), q)

	switch listFormat {
	case "json":
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	case "yaml":
		data, err := yaml.Marshal(records)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	case "table":
	default:
		return dmperr.Configurationf("unknown format %q (expecting table, json or yaml)", listFormat)
	}

	heading(fmt.Sprintf("Study %s: %d of %d files selected", studyID, len(records), set.Len()))

	if q.IDPrefixes.IsActive() {
		for _, r := range records {
			fmt.Printf("  %-8s  %-40s  %10s  %s\n",
				shortID(r.FileID), r.PathName(), utils.HumanBytes(r.FileSize), r.TimeUpload)
		}
		return nil
	}

	groupRecords(records, q)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// groupRecords prints one line per distinct combination of the active
// dimensions, with file count and cumulative size.
func groupRecords(records []manifest.FileRecord, q manifest.Query) {
	type bucket struct {
		count int
		bytes int64
	}
	keyOf := func(r manifest.FileRecord) string {
		var parts []string
		if q.Participants.IsActive() {
			parts = append(parts, r.ParticipantID)
		}
		if q.Kinds.IsActive() {
			parts = append(parts, r.DeviceKind)
		}
		if q.Devices.IsActive() {
			parts = append(parts, r.DeviceID)
		}
		return strings.Join(parts, "  ")
	}

	buckets := map[string]*bucket{}
	var keys []string
	for _, r := range records {
		k := keyOf(r)
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
			keys = append(keys, k)
		}
		b.count++
		b.bytes += r.FileSize
	}
	sort.Strings(keys)

	for _, k := range keys {
		b := buckets[k]
		label := k
		if label == "" {
			label = "(all)"
		}
		fmt.Printf("  %-30s  %5d files  %10s\n", label, b.count, utils.HumanBytes(b.bytes))
	}
}
