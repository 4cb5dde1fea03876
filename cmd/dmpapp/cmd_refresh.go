// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
	"github.com/ideafast/dmp-cli-sdk/sdk/state"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the cached user info from the server",
	Long: `Re-fetches the current user's information record, including the
study access list, and persists it. The session credential is kept.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	if !env.login.IsLoggedIn() {
		return dmperr.ErrNotLoggedIn
	}

	user, err := env.svc.UserInfo(cmd.Context())
	if err != nil {
		return err
	}

	info := state.NewUserInfo(user)
	if got := info.Username(); got != "" && got != env.login.Username() {
		return dmperr.Configurationf(
			"server returned info for user %q, but %q is logged in", got, env.login.Username())
	}
	if len(info.Studies()) == 0 {
		return &dmperr.MissingDataError{What: "study access information"}
	}

	if err := env.login.Login(env.login.Credential(), user); err != nil {
		return err
	}
	okf("User info refreshed.")
	printStudies(env)
	return nil
}
