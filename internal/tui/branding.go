package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/jaenan/internal/config"
)

const AppName = "jaenan"

const Tagline = "긴급재난문자 피드"

var LogoLines = []string{
	"     ██  ▄▄▄   ▄████ ██▄  ██  ▄▄▄  ██▄  ██",
	"     ██ ██▀██  ██▄▄  ███▄ ██ ██▀██ ███▄ ██",
	"     ██ ██▄██  ██▀▀  ██ ▀███ ██▄██ ██ ▀███",
	"██▄▄▄██ ██ ██  ▀████ ██   ██ ██ ██ ██   ██",
}

const CompactLogo = `jaenan ›`

var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#FFA86B"),
	lipgloss.Color("#FFE66D"),
	lipgloss.Color("#FF6B6B"),
}

// Palette. ApplyColors overrides it from the ui.colors config section.
var (
	PrimaryColor   = lipgloss.Color("#FF6B6B") // siren red
	SecondaryColor = lipgloss.Color("#4ECDC4")
	AccentColor    = lipgloss.Color("#95E1D3")

	BackgroundColor = lipgloss.Color("#1A1A2E")
	SurfaceColor    = lipgloss.Color("#16213E")
	TextColor       = lipgloss.Color("#EAEAEA")
	MutedColor      = lipgloss.Color("#94A3B8")

	WarnColor    = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#F87171")
	SuccessColor = lipgloss.Color("#4ADE80")
)

var (
	LogoStyle          lipgloss.Style
	TitleStyle         lipgloss.Style
	HeaderStyle        lipgloss.Style
	StatusBarStyle     lipgloss.Style
	TagStyle           lipgloss.Style
	UntaggedStyle      lipgloss.Style
	LocationStyle      lipgloss.Style
	SelectedItemStyle  lipgloss.Style
	HelpStyle          lipgloss.Style
	TimeStyle          lipgloss.Style
	ModalTitleStyle    lipgloss.Style
	ModalTextStyle     lipgloss.Style
	ErrorMessageStyle  lipgloss.Style
	SeparatorStyle     lipgloss.Style
	StatusInfoStyle    lipgloss.Style
	StatusSuccessStyle lipgloss.Style
	StatusWarnStyle    lipgloss.Style
	StatusErrorStyle   lipgloss.Style
	PagerPageStyle     lipgloss.Style
	PagerCurrentStyle  lipgloss.Style
	PagerArrowStyle    lipgloss.Style
	CheckedStyle       lipgloss.Style
)

func init() {
	buildStyles()
}

// ApplyColors replaces the palette with the configured colors. Empty values
// keep the built-in color.
func ApplyColors(c config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, c.Primary)
	set(&SecondaryColor, c.Secondary)
	set(&AccentColor, c.Accent)
	set(&TextColor, c.Text)
	set(&MutedColor, c.Muted)
	set(&ErrorColor, c.Error)
	set(&SuccessColor, c.Success)
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(SurfaceColor).
		Bold(true).
		Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Padding(0, 1)

	TagStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	UntaggedStyle = lipgloss.NewStyle().
		Foreground(TextColor)

	LocationStyle = lipgloss.NewStyle().
		Foreground(AccentColor)

	SelectedItemStyle = lipgloss.NewStyle().
		Foreground(BackgroundColor).
		Background(AccentColor).
		Bold(true)

	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	TimeStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Faint(true)

	ModalTitleStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	ModalTextStyle = lipgloss.NewStyle().
		Foreground(TextColor)

	ErrorMessageStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	SeparatorStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusInfoStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
		Foreground(WarnColor)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	PagerPageStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	PagerCurrentStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	PagerArrowStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor)

	CheckedStyle = lipgloss.NewStyle().
		Foreground(SuccessColor).
		Bold(true)
}

// ContentWrapper constrains content to the area above the status bar.
func ContentWrapper(width, height int) lipgloss.Style {
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height)
}

func GetEmptyMessage() string {
	return GetCompactBanner(MsgNoMessages)
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

// RenderBanner returns the framed banner printed by the CLI.
func RenderBanner(version string) string {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)

	tag := Tagline
	if version != "" && version != "dev" {
		if version[0] != 'v' && version[0] != 'V' {
			version = "v" + version
		}
		tag = fmt.Sprintf("%s %s", Tagline, version)
	}
	lines = append(lines, tag)

	var colored []string
	for i, line := range lines {
		if line == "" {
			colored = append(colored, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		colored = append(colored, style.Render(line))
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1)

	separator := lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Render("◆ ◇ ◆ ◇ ◆")

	center := lipgloss.NewStyle().Width(70).Align(lipgloss.Center)
	return lipgloss.JoinVertical(lipgloss.Center,
		center.Render(frame.Render(lipgloss.JoinVertical(lipgloss.Center, colored...))),
		center.MarginBottom(1).Render(separator),
	)
}

func ShowBanner(version string) {
	fmt.Println(RenderBanner(version))
}
