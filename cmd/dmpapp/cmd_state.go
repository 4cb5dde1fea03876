// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stateErase bool

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show (or erase) the persisted client state",
	Long: `Shows where the client keeps its state and what it currently holds:
the state folder, the remembered username, whether a session credential
is present, the selected default study and the data folder.

With --erase the login state is reset; the previous state file survives
as a .bak sibling.`,
	Args: cobra.NoArgs,
	RunE: runState,
}

func init() {
	stateCmd.Flags().BoolVar(&stateErase, "erase", false,
		"Reset the login state (previous file rotates to .bak)")
}

func runState(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}

	if stateErase {
		if err := env.login.Erase(); err != nil {
			return err
		}
		okf("Login state erased.")
		return nil
	}

	heading("Client state")
	kv("State folder", env.app.Home())
	kv("Server", env.conf.Core.Server)
	kv("Username", env.login.Username())

	logged := "no"
	if env.login.IsLoggedIn() {
		logged = "yes"
	}
	kv("Logged in", logged)

	study := env.login.DefaultStudy()
	if info := env.login.UserInfo(); info != nil && study != "" {
		if name := info.Studies()[study]; name != "" {
			study = fmt.Sprintf("%s (%s)", study, name)
		}
	}
	kv("Default study", study)

	if stamp, ok, err := env.login.Stamp(); err == nil && ok {
		kv("State saved", stamp.Format("2006-01-02 15:04:05"))
	}

	folder := env.cache.DataFolderRaw()
	kv("Data folder", folder)
	return nil
}
