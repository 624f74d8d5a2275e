// Package theme holds the dashboard palettes and maps call outcomes onto them.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme is a named palette. The first block is chrome, the second is the
// signal colors the call views draw with.
type Theme struct {
	Name string

	Background    lipgloss.Color
	Surface       lipgloss.Color // cards and bars
	SurfaceHover  lipgloss.Color // selected row, active tab
	SurfaceBright lipgloss.Color // edited settings row
	Border        lipgloss.Color
	BorderAccent  lipgloss.Color
	TextDim       lipgloss.Color
	TextMuted     lipgloss.Color
	TextPrimary   lipgloss.Color
	Accent        lipgloss.Color
	AccentBright  lipgloss.Color

	Green       lipgloss.Color
	GreenBright lipgloss.Color
	Yellow      lipgloss.Color
	Orange      lipgloss.Color
	Red         lipgloss.Color
	Blue        lipgloss.Color
	Cyan        lipgloss.Color

	// Outcome colors. Zero values fall back to Green, Red and Blue.
	Completed lipgloss.Color
	Missed    lipgloss.Color
	Live      lipgloss.Color
}

// Active is the palette every view renders with.
var Active = FlexokiDark

var FlexokiDark = Theme{
	Name:          "flexoki-dark",
	Background:    "#100F0F",
	Surface:       "#1C1B1A",
	SurfaceHover:  "#282726",
	SurfaceBright: "#343331",
	Border:        "#403E3C",
	BorderAccent:  "#3AA99F",
	TextDim:       "#575653",
	TextMuted:     "#878580",
	TextPrimary:   "#FFFCF0",
	Accent:        "#3AA99F",
	AccentBright:  "#5BC8BE",
	Green:         "#879A39",
	GreenBright:   "#A3B859",
	Yellow:        "#D0A215",
	Orange:        "#DA702C",
	Red:           "#D14D41",
	Blue:          "#4385BE",
	Cyan:          "#24837B",
	Live:          "#8B7EC8",
}

var GruvboxDark = Theme{
	Name:          "gruvbox-dark",
	Background:    "#1D2021",
	Surface:       "#282828",
	SurfaceHover:  "#3C3836",
	SurfaceBright: "#504945",
	Border:        "#504945",
	BorderAccent:  "#D79921",
	TextDim:       "#665C54",
	TextMuted:     "#A89984",
	TextPrimary:   "#EBDBB2",
	Accent:        "#D79921",
	AccentBright:  "#FABD2F",
	Green:         "#98971A",
	GreenBright:   "#B8BB26",
	Yellow:        "#FABD2F",
	Orange:        "#FE8019",
	Red:           "#FB4934",
	Blue:          "#83A598",
	Cyan:          "#8EC07C",
	Completed:     "#B8BB26",
}

var TokyoNight = Theme{
	Name:          "tokyo-night",
	Background:    "#1A1B26",
	Surface:       "#24283B",
	SurfaceHover:  "#343A52",
	SurfaceBright: "#414868",
	Border:        "#565F89",
	BorderAccent:  "#7AA2F7",
	TextDim:       "#565F89",
	TextMuted:     "#A9B1D6",
	TextPrimary:   "#C0CAF5",
	Accent:        "#7AA2F7",
	AccentBright:  "#A9C1FF",
	Green:         "#9ECE6A",
	GreenBright:   "#B9E87A",
	Yellow:        "#E0AF68",
	Orange:        "#FF9E64",
	Red:           "#F7768E",
	Blue:          "#7AA2F7",
	Cyan:          "#7DCFFF",
	Live:          "#BB9AF7",
}

// Terminal sticks to the 16 ANSI colors.
var Terminal = Theme{
	Name:          "terminal",
	Background:    "0",
	Surface:       "0",
	SurfaceHover:  "8",
	SurfaceBright: "8",
	Border:        "8",
	BorderAccent:  "6",
	TextDim:       "8",
	TextMuted:     "7",
	TextPrimary:   "15",
	Accent:        "6",
	AccentBright:  "14",
	Green:         "2",
	GreenBright:   "10",
	Yellow:        "3",
	Orange:        "3",
	Red:           "1",
	Blue:          "4",
	Cyan:          "6",
}

// All lists the selectable palettes. The first is the default.
var All = []Theme{FlexokiDark, GruvboxDark, TokyoNight, Terminal}

// Names lists theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// Status returns the color for a call status label as printed by
// model.CallStatus.String.
func (t Theme) Status(label string) lipgloss.Color {
	switch label {
	case "Completed":
		return or(t.Completed, t.Green)
	case "Missed":
		return or(t.Missed, t.Red)
	case "In Progress":
		return or(t.Live, t.Blue)
	default:
		return t.TextMuted
	}
}

// Rate colors a 0-100 success percentage.
func (t Theme) Rate(pct float64) lipgloss.Color {
	switch {
	case pct >= 80:
		return t.Green
	case pct >= 60:
		return t.Yellow
	case pct >= 40:
		return t.Orange
	default:
		return t.Red
	}
}

func or(c, fallback lipgloss.Color) lipgloss.Color {
	if c == "" {
		return fallback
	}
	return c
}

// ByName looks a palette up by name. Unknown names get the default.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return All[0]
}

// SetActive switches the palette used by subsequent renders.
func SetActive(name string) {
	Active = ByName(name)
}
