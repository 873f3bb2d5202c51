// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides file and text helpers shared by storage, export and
// the terminal front ends.
//
// # Key Functions
//
//   - AtomicWriteFile: crash-safe file replacement (temp file, fsync, rename)
//   - StringWidth, TruncateWidth, WrapWidth: terminal display-width text handling
//   - NormalizeNFC: canonical Unicode form for names derived from user text
//
// # Usage
//
//	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
//	    return err
//	}
//	label := util.TruncateWidth(modelName, 24)
package util
