// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by every command output. Tuned for dark terminals.
const (
	// ColorPrimary is purple, for titles and layer headers.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is gray, for subtitles and secondary text.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess is green, for completed steps.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError is red, for failures.
	ColorError = lipgloss.Color("#EF4444")
	// ColorWarning is amber, for discovery warnings.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorHighlight is blue, for module names and keys.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// ModuleStyle is for module names.
	ModuleStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// layerStyle indents the modules of one layer under its header.
	layerStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)
