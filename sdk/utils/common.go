// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"fmt"
	"os"
	"time"
)

/* ------------ logging helpers (stderr) ------------ */

func Warnf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "[WARN] "+format+"\n", a...)
}

/* ------------ millisecond timestamp helpers ------------ */

// StampToText renders a UNIX-milliseconds stamp as an ISO-style UTC
// string with millisecond precision, or "" for stamp 0.
func StampToText(stamp int64) string {
	if stamp == 0 {
		return ""
	}
	return time.UnixMilli(stamp).UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// HumanBytes renders a byte count in B/KB/MB/GB form.
func HumanBytes(n int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case n >= gb:
		return fmt.Sprintf("%.2f GB", float64(n)/float64(gb))
	case n >= mb:
		return fmt.Sprintf("%.2f MB", float64(n)/float64(mb))
	case n >= kb:
		return fmt.Sprintf("%.2f KB", float64(n)/float64(kb))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
