// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Terminal palette for the dmpapp CLI.
var (
	colorHeading = lipgloss.Color("#5FD7FF") // cyan - section headings
	colorOK      = lipgloss.Color("#5FFF87") // green - success lines
	colorWarn    = lipgloss.Color("#FFD75F") // amber - warnings
	colorBad     = lipgloss.Color("#FF5F5F") // red - errors
	colorMuted   = lipgloss.Color("#808080") // grey - secondary detail
)

var styles = struct {
	Heading lipgloss.Style
	OK      lipgloss.Style
	Warn    lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Value   lipgloss.Style
}{
	Heading: lipgloss.NewStyle().Bold(true).Foreground(colorHeading),
	OK:      lipgloss.NewStyle().Foreground(colorOK),
	Warn:    lipgloss.NewStyle().Foreground(colorWarn),
	Error:   lipgloss.NewStyle().Bold(true).Foreground(colorBad),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Value:   lipgloss.NewStyle().Bold(true),
}

func heading(s string) { fmt.Println(styles.Heading.Render(s)) }

func okf(format string, a ...any) {
	fmt.Println(styles.OK.Render(fmt.Sprintf(format, a...)))
}

func warnf(format string, a ...any) {
	fmt.Fprintln(os.Stderr, styles.Warn.Render(fmt.Sprintf(format, a...)))
}

func errorf(format string, a ...any) {
	fmt.Fprintln(os.Stderr, styles.Error.Render(fmt.Sprintf(format, a...)))
}

// kv prints an aligned "key: value" detail line.
func kv(key, value string) {
	if value == "" {
		value = styles.Muted.Render("(not set)")
	} else {
		value = styles.Value.Render(value)
	}
	fmt.Printf("  %-14s %s\n", key+":", value)
}
