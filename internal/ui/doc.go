// Package ui provides the styled line output used by pulse commands outside
// the full-screen display: status lines and a spinner for slow setup steps.
//
// Colors are ANSI codes so output follows the user's terminal theme:
//
//	ColorSuccess   (green)  - completed steps
//	ColorError     (red)    - failures
//	ColorWarning   (yellow) - skipped or degraded steps
//	ColorMuted     (gray)   - timings and hints
package ui
