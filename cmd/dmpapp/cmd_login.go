// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
)

var totpRe = regexp.MustCompile(`^[0-9]{6}$`)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in to the platform",
	Long: `Obtains a new session. The username is remembered across sessions;
give it once and subsequent logins only ask for password and TOTP code.
Switching to a different username forgets the previous session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the current session",
	Long:  `Drops the session credential and cached user info. The username stays remembered.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		if !env.login.IsLoggedIn() {
			warnf("you were not logged in")
		}
		if err := env.login.Logout(); err != nil {
			return err
		}
		okf("Logged out.")
		return nil
	},
}

func runLogin(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}

	username := env.login.Username()
	if len(args) == 1 && args[0] != "" {
		if args[0] != username {
			// switching identity forgets the old session first
			if err := env.login.ChangeUser(args[0], nil, nil); err != nil {
				return err
			}
		}
		username = args[0]
	}
	if username == "" {
		return dmperr.Configurationf("no username remembered, use: dmpapp login <username>")
	}

	password, err := promptPassword(fmt.Sprintf("Password for %s: ", username))
	if err != nil {
		return err
	}
	totp, err := promptLine("TOTP code: ")
	if err != nil {
		return err
	}
	if !totpRe.MatchString(totp) {
		return dmperr.Configurationf("expecting a 6-digit TOTP code, got %q", totp)
	}

	user, cred, err := env.svc.Login(cmd.Context(), username, password, totp)
	if err != nil {
		return err
	}
	if err := env.login.ChangeUser(username, cred, user); err != nil {
		return err
	}

	okf("Logged in as %s.", username)
	printStudies(env)
	return nil
}

// printStudies lists the accessible studies, marking the default.
func printStudies(env *appEnv) {
	info := env.login.UserInfo()
	if info == nil {
		return
	}
	studies := info.Studies()
	if len(studies) == 0 {
		warnf("this account has no study access")
		return
	}
	ids := make([]string, 0, len(studies))
	for id := range studies {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	heading("Accessible studies")
	for _, id := range ids {
		marker := " "
		if id == env.login.DefaultStudy() {
			marker = "*"
		}
		fmt.Printf("  %s %s  %s\n", marker, id, studies[id])
	}
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
