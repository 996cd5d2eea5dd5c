package style

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ColorEnabled decides whether ANSI color sequences are emitted on f.
// NO_COLOR wins over everything, CLICOLOR_FORCE wins over TTY detection.
func ColorEnabled(f *os.File) bool {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return false
	}
	if envFlag("CLICOLOR_FORCE") {
		return true
	}
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func envFlag(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Styles is the fixed palette used by the list renderer. When color is
// disabled every style renders its text unchanged.
type Styles struct {
	Branch     lipgloss.Style
	Current    lipgloss.Style
	Main       lipgloss.Style
	Dim        lipgloss.Style
	Added      lipgloss.Style
	Deleted    lipgloss.Style
	Ahead      lipgloss.Style
	Behind     lipgloss.Style
	Conflict   lipgloss.Style
	CIPass     lipgloss.Style
	CIFail     lipgloss.Style
	CIPending  lipgloss.Style
	URL        lipgloss.Style
	URLDead    lipgloss.Style
	Header     lipgloss.Style
	Skeleton   lipgloss.Style
	StatusDirt lipgloss.Style
}

func NewStyles(enabled bool) Styles {
	if !enabled {
		return Styles{}
	}
	return Styles{
		Branch:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
		Current:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true),
		Main:       lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Added:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Deleted:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Ahead:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Behind:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Conflict:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		CIPass:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		CIFail:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		CIPending:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		URL:        lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Underline(true),
		URLDead:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Header:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Skeleton:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		StatusDirt: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
}
