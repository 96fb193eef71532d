package ui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Palette holds the hex colors used on dark terminals. Light terminals get
// the matching entries of lightPalette through lipgloss.AdaptiveColor.
type Palette struct {
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Text      string
	Muted     string
	Border    string
}

var (
	darkPalette = Palette{
		Primary:   "#DA7756",
		Secondary: "#7C3AED",
		Success:   "#10B981",
		Warning:   "#F59E0B",
		Error:     "#EF4444",
		Text:      "#F9FAFB",
		Muted:     "#9CA3AF",
		Border:    "#4B5563",
	}
	lightPalette = Palette{
		Primary:   "#C45A3C",
		Secondary: "#5B21B6",
		Success:   "#059669",
		Warning:   "#D97706",
		Error:     "#DC2626",
		Text:      "#111827",
		Muted:     "#6B7280",
		Border:    "#D1D5DB",
	}
)

// Theme carries the palette and the color switch shared by every component.
type Theme struct {
	NoColor bool
	Colors  Palette
}

// NewTheme returns the default theme. noColor strips every style.
func NewTheme(noColor bool) *Theme {
	return &Theme{NoColor: noColor, Colors: darkPalette}
}

func (t *Theme) adaptive(pick func(Palette) string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: pick(lightPalette), Dark: pick(t.Colors)}
}

// huhTheme maps the palette onto huh form styles.
func (t *Theme) huhTheme() *huh.Theme {
	if t.NoColor {
		return huh.ThemeBase()
	}
	h := huh.ThemeBase()

	primary := t.adaptive(func(p Palette) string { return p.Primary })
	green := t.adaptive(func(p Palette) string { return p.Success })
	red := t.adaptive(func(p Palette) string { return p.Error })
	text := t.adaptive(func(p Palette) string { return p.Text })
	muted := t.adaptive(func(p Palette) string { return p.Muted })
	border := t.adaptive(func(p Palette) string { return p.Border })

	h.Focused.Base = h.Focused.Base.BorderForeground(border)
	h.Focused.Title = h.Focused.Title.Foreground(primary).Bold(true)
	h.Focused.Description = h.Focused.Description.Foreground(muted)
	h.Focused.ErrorIndicator = h.Focused.ErrorIndicator.Foreground(red)
	h.Focused.ErrorMessage = h.Focused.ErrorMessage.Foreground(red)
	h.Focused.SelectSelector = h.Focused.SelectSelector.Foreground(primary).SetString("▸ ")
	h.Focused.Option = h.Focused.Option.Foreground(text)
	h.Focused.SelectedOption = h.Focused.SelectedOption.Foreground(green)
	h.Focused.TextInput.Cursor = h.Focused.TextInput.Cursor.Foreground(primary)
	h.Focused.TextInput.Placeholder = h.Focused.TextInput.Placeholder.Foreground(muted)
	h.Focused.FocusedButton = h.Focused.FocusedButton.
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}).
		Background(primary)
	h.Focused.BlurredButton = h.Focused.BlurredButton.
		Foreground(text).
		Background(lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"})

	h.Blurred = h.Focused
	h.Blurred.Base = h.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	return h
}

// styles is the set of lipgloss styles a Reporter renders with.
type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	id      lipgloss.Style
	border  lipgloss.Style
	added   lipgloss.Style
	removed lipgloss.Style
	hunk    lipgloss.Style
}

// styles keeps tabs intact; manifest lines are tab indented.
func (t *Theme) styles(r *lipgloss.Renderer) styles {
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	if t.NoColor {
		return styles{base, base, base, base, base, base, base, base, base, base}
	}
	fg := func(pick func(Palette) string) lipgloss.Style {
		return base.Foreground(t.adaptive(pick))
	}
	return styles{
		title:   fg(func(p Palette) string { return p.Primary }).Bold(true),
		success: fg(func(p Palette) string { return p.Success }),
		warning: fg(func(p Palette) string { return p.Warning }),
		failure: fg(func(p Palette) string { return p.Error }).Bold(true),
		muted:   fg(func(p Palette) string { return p.Muted }),
		id:      fg(func(p Palette) string { return p.Secondary }),
		border:  fg(func(p Palette) string { return p.Border }),
		added:   fg(func(p Palette) string { return p.Success }),
		removed: fg(func(p Palette) string { return p.Error }),
		hunk:    fg(func(p Palette) string { return p.Secondary }),
	}
}
