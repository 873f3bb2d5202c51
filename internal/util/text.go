// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// StringWidth returns the number of terminal columns s occupies.
// Wide (CJK, emoji) runes count as two.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateWidth shortens s to at most maxWidth columns, ending in an
// ellipsis when anything was cut. Never splits a rune.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= runewidth.StringWidth(Ellipsis) {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// WrapWidth word-wraps text to lines of at most width columns. Words wider
// than width get a line of their own. Existing line breaks are kept.
func WrapWidth(text string, width int) string {
	if width <= 0 || (runewidth.StringWidth(text) <= width && !strings.Contains(text, "\n")) {
		return text
	}

	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		out = append(out, wrapLine(p, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	currentWidth := runewidth.StringWidth(current)
	for _, word := range words[1:] {
		w := runewidth.StringWidth(word)
		if currentWidth+1+w > width {
			lines = append(lines, current)
			current, currentWidth = word, w
			continue
		}
		current += " " + word
		currentWidth += 1 + w
	}
	return append(lines, current)
}

// NormalizeNFC returns s in Unicode canonical composed form, so visually
// identical input yields identical bytes.
func NormalizeNFC(s string) string {
	return norm.NFC.String(s)
}
