// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ideafast/dmp-cli-sdk/sdk/config"
	"github.com/ideafast/dmp-cli-sdk/sdk/dmperr"
	"github.com/ideafast/dmp-cli-sdk/sdk/services/manifest"
	"github.com/ideafast/dmp-cli-sdk/sdk/services/remote"
	"github.com/ideafast/dmp-cli-sdk/sdk/state"
	"github.com/ideafast/dmp-cli-sdk/sdk/utils"
)

// appEnv bundles the persistent state and the services every command
// needs. One instance per invocation.
type appEnv struct {
	conf  config.Config
	app   *state.AppState
	login *state.LoginState
	cache *state.DataCache
	db    *manifest.FileDB
	svc   *remote.Service
}

func openEnv() (*appEnv, error) {
	conf := config.LoadConfig()
	appName := conf.Core.AppName
	if appName == "" {
		appName = utils.DefaultAppName
	}
	app, err := state.NewAppState(appName)
	if err != nil {
		return nil, err
	}
	login, err := state.NewLoginState(app)
	if err != nil {
		return nil, err
	}
	cache, err := state.NewDataCache(app)
	if err != nil {
		return nil, err
	}
	return &appEnv{
		conf:  conf,
		app:   app,
		login: login,
		cache: cache,
		db:    manifest.NewFileDB(cache),
		svc:   remote.NewService(nil, conf, login),
	}, nil
}

// resolveStudy turns a study id prefix into the one matching study id
// from the logged-in user's access list. An empty prefix falls back to
// the selected default study.
func (e *appEnv) resolveStudy(prefix string) (string, error) {
	if prefix == "" {
		if s := e.login.DefaultStudy(); s != "" {
			return s, nil
		}
		return "", dmperr.Configurationf("no study selected (hint: dmpapp study <prefix>)")
	}
	info := e.login.UserInfo()
	if info == nil {
		return "", dmperr.ErrNotLoggedIn
	}
	ids := info.MatchingStudyIDs(prefix)
	switch len(ids) {
	case 0:
		return "", &dmperr.NoMatchError{Kind: "study", Prefix: prefix}
	case 1:
		return ids[0], nil
	default:
		return "", &dmperr.AmbiguousMatchError{Kind: "study", Prefix: prefix, Matches: ids}
	}
}

// loadStudyManifest resolves the study and loads its cached manifest,
// which must already exist.
func (e *appEnv) loadStudyManifest(prefix string) (string, *manifest.FileSet, error) {
	studyID, err := e.resolveStudy(prefix)
	if err != nil {
		return "", nil, err
	}
	set, found, err := e.db.LoadManifest(studyID)
	if err != nil {
		return "", nil, err
	}
	if !found {
		return "", nil, dmperr.Configurationf(
			"no cached manifest for study %s (hint: dmpapp files)", studyID)
	}
	return studyID, set, nil
}

// selectorFlag materializes a tri-state filter dimension from a flag:
// flag absent means don't care, "*" values mean group without
// restricting, anything else restricts.
func selectorFlag(cmd *cobra.Command, name string, values []string) manifest.Selector {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	sel := manifest.Selector{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || v == "*" {
			continue
		}
		sel = append(sel, v)
	}
	return sel
}
