// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"fmt"
	"os"
	"time"
)

/* ------------ tiny UI helpers for single-line progress ------------ */

// GlobalProgress renders a throttled one-line progress indicator to
// stderr. Drive it from a download progress callback with Set, or
// incrementally with Add.
type GlobalProgress struct {
	TotalKnown bool
	TotalBytes int64
	doneBytes  int64
	spinIdx    int
	lastTick   time.Time
}

var spinner = []rune{'|', '/', '-', '\\'}

func (gp *GlobalProgress) Add(delta int64) {
	gp.doneBytes += delta
}

// Set replaces the completed byte count (matches the shape of the
// transfer progress callback, which reports cumulative bytes).
func (gp *GlobalProgress) Set(done int64) {
	gp.doneBytes = done
}

func (gp *GlobalProgress) Render(force bool) {
	// throttling: update ~10 times per second to avoid spamming
	if !force && time.Since(gp.lastTick) < 100*time.Millisecond {
		return
	}
	gp.lastTick = time.Now()

	if gp.TotalKnown && gp.TotalBytes > 0 {
		pct := float64(gp.doneBytes) / float64(gp.TotalBytes) * 100
		if gp.doneBytes > gp.TotalBytes {
			gp.doneBytes = gp.TotalBytes
			pct = 100
		}
		fmt.Fprintf(os.Stderr, "\rProgress: %6.2f%% (%s / %s)   ",
			pct, HumanBytes(gp.doneBytes), HumanBytes(gp.TotalBytes))
	} else {
		ch := spinner[gp.spinIdx%len(spinner)]
		gp.spinIdx++
		fmt.Fprintf(os.Stderr, "\rProgress: [%c] %s downloaded   ", ch, HumanBytes(gp.doneBytes))
	}
}

func (gp *GlobalProgress) Done() {
	gp.Render(true)
	fmt.Fprintln(os.Stderr)
}
