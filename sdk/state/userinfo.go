// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"sort"
	"strings"
	"time"
)

// UserInfo interprets the raw user payload cached from the server.
// The raw map is persisted verbatim in the login state; this type only
// reads it.
type UserInfo struct {
	raw map[string]any
}

func NewUserInfo(raw map[string]any) *UserInfo {
	return &UserInfo{raw: raw}
}

func (u *UserInfo) str(key string) string {
	if u == nil || u.raw == nil {
		return ""
	}
	s, _ := u.raw[key].(string)
	return s
}

func (u *UserInfo) UserID() string    { return u.str("id") }
func (u *UserInfo) Username() string  { return u.str("username") }
func (u *UserInfo) Firstname() string { return u.str("firstname") }
func (u *UserInfo) Lastname() string  { return u.str("lastname") }
func (u *UserInfo) Email() string     { return u.str("email") }

// stampString renders a millisecond timestamp field as a UTC time, or
// "" when absent or zero.
func (u *UserInfo) stampString(key string) string {
	if u == nil || u.raw == nil {
		return ""
	}
	var millis int64
	switch v := u.raw[key].(type) {
	case float64:
		millis = int64(v)
	case int64:
		millis = v
	default:
		return ""
	}
	if millis == 0 {
		return ""
	}
	return time.UnixMilli(millis).UTC().Format("2006-01-02 15:04:05")
}

// Created returns the account creation time as text, or "".
func (u *UserInfo) Created() string { return u.stampString("createdAt") }

// Expires returns the account expiry time as text, or "".
func (u *UserInfo) Expires() string { return u.stampString("expiredAt") }

// Studies returns the map of accessible study ids to study names, or
// nil when the payload carries no study access information.
func (u *UserInfo) Studies() map[string]string {
	if u == nil || u.raw == nil {
		return nil
	}
	access, _ := u.raw["access"].(map[string]any)
	if access == nil {
		return nil
	}
	list, ok := access["studies"].([]any)
	if !ok {
		return nil
	}
	studies := map[string]string{}
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, _ := m["id"].(string)
		if id == "" {
			continue
		}
		name, _ := m["name"].(string)
		studies[id] = name
	}
	return studies
}

// MatchingStudyIDs returns the full study ids whose lowercase form
// starts with the given prefix, sorted for stable reporting.
func (u *UserInfo) MatchingStudyIDs(prefix string) []string {
	prefix = strings.ToLower(prefix)
	var ids []string
	for id := range u.Studies() {
		if strings.HasPrefix(strings.ToLower(id), prefix) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
