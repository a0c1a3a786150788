package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

const defaultTheme = "agency"

type palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	AccentAlt  lipgloss.Color
	Border     lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Critical   lipgloss.Color
	BarFill    lipgloss.Color
	BarEmpty   lipgloss.Color
}

var palettes = map[string]palette{
	"agency": {
		Background: lipgloss.Color("#0b1021"),
		Surface:    lipgloss.Color("#141a33"),
		Text:       lipgloss.Color("#d7e0ff"),
		Muted:      lipgloss.Color("#7c88b3"),
		Accent:     lipgloss.Color("#4fc3f7"),
		AccentAlt:  lipgloss.Color("#b388ff"),
		Border:     lipgloss.Color("#2c3566"),
		Success:    lipgloss.Color("#69f0ae"),
		Warning:    lipgloss.Color("#ffd740"),
		Critical:   lipgloss.Color("#ff5252"),
		BarFill:    lipgloss.Color("#4fc3f7"),
		BarEmpty:   lipgloss.Color("#2c3566"),
	},
	"terminal": {
		Background: lipgloss.Color("#000000"),
		Surface:    lipgloss.Color("#001a00"),
		Text:       lipgloss.Color("#33ff33"),
		Muted:      lipgloss.Color("#1f9e1f"),
		Accent:     lipgloss.Color("#66ff66"),
		AccentAlt:  lipgloss.Color("#ccffcc"),
		Border:     lipgloss.Color("#0f5f0f"),
		Success:    lipgloss.Color("#99ff99"),
		Warning:    lipgloss.Color("#ffff66"),
		Critical:   lipgloss.Color("#ff3333"),
		BarFill:    lipgloss.Color("#33ff33"),
		BarEmpty:   lipgloss.Color("#0f3f0f"),
	},
	"amber": {
		Background: lipgloss.Color("#1a1000"),
		Surface:    lipgloss.Color("#2b1b00"),
		Text:       lipgloss.Color("#ffb000"),
		Muted:      lipgloss.Color("#b37a00"),
		Accent:     lipgloss.Color("#ffcc33"),
		AccentAlt:  lipgloss.Color("#ffe08a"),
		Border:     lipgloss.Color("#5c3d00"),
		Success:    lipgloss.Color("#ffd966"),
		Warning:    lipgloss.Color("#ff8c00"),
		Critical:   lipgloss.Color("#ff4500"),
		BarFill:    lipgloss.Color("#ffb000"),
		BarEmpty:   lipgloss.Color("#3d2900"),
	},
	"mono": {
		Background: lipgloss.Color("#111111"),
		Surface:    lipgloss.Color("#1c1c1c"),
		Text:       lipgloss.Color("#e4e4e4"),
		Muted:      lipgloss.Color("#8a8a8a"),
		Accent:     lipgloss.Color("#ffffff"),
		AccentAlt:  lipgloss.Color("#bcbcbc"),
		Border:     lipgloss.Color("#444444"),
		Success:    lipgloss.Color("#d0d0d0"),
		Warning:    lipgloss.Color("#ffffff"),
		Critical:   lipgloss.Color("#ffffff"),
		BarFill:    lipgloss.Color("#e4e4e4"),
		BarEmpty:   lipgloss.Color("#3a3a3a"),
	},
}

func paletteFor(name string) palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[defaultTheme]
}

func themeNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func nextThemeName(current string, step int) string {
	names := themeNames()
	if len(names) == 0 {
		return current
	}
	idx := 0
	for i, name := range names {
		if name == current {
			idx = i
			break
		}
	}
	idx = (idx + step) % len(names)
	if idx < 0 {
		idx += len(names)
	}
	return names[idx]
}

type styles struct {
	header   lipgloss.Style
	title    lipgloss.Style
	text     lipgloss.Style
	muted    lipgloss.Style
	accent   lipgloss.Style
	success  lipgloss.Style
	warning  lipgloss.Style
	banner   lipgloss.Style
	panel    lipgloss.Style
	navOn    lipgloss.Style
	navOff   lipgloss.Style
	border   lipgloss.Style
	barFill  lipgloss.Style
	barEmpty lipgloss.Style
}

func stylesFor(p palette) styles {
	return styles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Background(p.Surface).Padding(0, 1),
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		text:     lipgloss.NewStyle().Foreground(p.Text),
		muted:    lipgloss.NewStyle().Foreground(p.Muted),
		accent:   lipgloss.NewStyle().Foreground(p.AccentAlt),
		success:  lipgloss.NewStyle().Foreground(p.Success),
		warning:  lipgloss.NewStyle().Foreground(p.Warning),
		banner:   lipgloss.NewStyle().Bold(true).Foreground(p.Background).Background(p.Critical).Padding(0, 1),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1),
		navOn:    lipgloss.NewStyle().Bold(true).Foreground(p.Background).Background(p.Accent).Padding(0, 1),
		navOff:   lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1),
		border:   lipgloss.NewStyle().Foreground(p.Border),
		barFill:  lipgloss.NewStyle().Foreground(p.BarFill),
		barEmpty: lipgloss.NewStyle().Foreground(p.BarEmpty),
	}
}
