package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Core palette: deep-space violet with signal accents.
	Violet     = lipgloss.Color("#9D4EDD")
	DimViolet  = lipgloss.Color("#3C096C")
	Cyan       = lipgloss.Color("#00D4AA")
	Amber      = lipgloss.Color("#FFB703")
	MidGray    = lipgloss.Color("#3a3a4e")
	LightGray  = lipgloss.Color("#aaaaaa")
	White      = lipgloss.Color("#e0e0e0")
	DeepGreen  = lipgloss.Color("#4a5a3a")
	ErrRed     = lipgloss.Color("#FF4136")
	SignalBlue = lipgloss.Color("#48BFE3")

	RoleHeaderStyle = lipgloss.NewStyle().Bold(true)

	OperatorMsgStyle = lipgloss.NewStyle().
				Foreground(White)

	XylonMsgStyle = lipgloss.NewStyle().
			Foreground(Cyan)

	ThoughtLabelStyle = lipgloss.NewStyle().
				Foreground(DeepGreen).
				Italic(true).
				Bold(true)

	ThoughtBlockStyle = lipgloss.NewStyle().
				Foreground(DeepGreen).
				Italic(true)

	SystemMsgStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	ReflectionStyle = lipgloss.NewStyle().
			Foreground(SignalBlue).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrRed).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(MidGray)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Violet)

	InputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimViolet).
			Padding(0, 1)

	ViewportStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(DimViolet).
			Padding(0, 1)

	BannerStyle = lipgloss.NewStyle().
			Foreground(Violet).
			Bold(true)
)

const Banner = `
  ██╗  ██╗██╗   ██╗██╗      ██████╗ ███╗   ██╗
  ╚██╗██╔╝╚██╗ ██╔╝██║     ██╔═══██╗████╗  ██║
   ╚███╔╝  ╚████╔╝ ██║     ██║   ██║██╔██╗ ██║
   ██╔██╗   ╚██╔╝  ██║     ██║   ██║██║╚██╗██║
  ██╔╝ ██╗   ██║   ███████╗╚██████╔╝██║ ╚████║
  ╚═╝  ╚═╝   ╚═╝   ╚══════╝ ╚═════╝ ╚═╝  ╚═══╝
`
