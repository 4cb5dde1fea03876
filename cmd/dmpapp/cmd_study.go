// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
)

var studyClear bool

var studyCmd = &cobra.Command{
	Use:   "study [prefix]",
	Short: "Select (or show) the default study",
	Long: `Selects the default study by id prefix. The prefix must resolve to
exactly one study the logged-in user can access. Without arguments the
accessible studies are listed, marking the current default.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStudy,
}

func init() {
	studyCmd.Flags().BoolVar(&studyClear, "clear", false, "Clear the default study selection")
}

func runStudy(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}

	if studyClear {
		if len(args) != 0 {
			return dmperr.Configurationf("--clear takes no study prefix")
		}
		if err := env.login.ChangeStudy(""); err != nil {
			return err
		}
		okf("Default study cleared.")
		return nil
	}

	if len(args) == 0 {
		printStudies(env)
		return nil
	}

	if err := env.login.ChangeStudy(args[0]); err != nil {
		return err
	}
	okf("Default study is now %s.", env.login.DefaultStudy())
	return nil
}
