// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the aurora TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection.

# Colors

  - Purple - assistant messages, title
  - Cyan - info, input focus
  - Emerald - success, local provider
  - Amber - warnings, remote provider
  - Rose - errors and failed exchanges

# Theme

Theme bundles the lipgloss styles used by the chat view. NewTheme probes
the terminal profile with termenv.

# Accessibility

Status output always pairs color with an ASCII indicator ([OK], [X], [!],
[i]) via RenderSuccess, RenderError, RenderWarning and RenderInfo.
*/
package styles
