package bot

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/tartampluch/go-addressbook/internal/config"
)

type tone int

const (
	toneInfo tone = iota
	toneSuccess
	toneError
)

// console writes styled replies. Colors are only emitted when the writer is a
// terminal; the renderer falls back to plain text for files and buffers.
type console struct {
	w      io.Writer
	tty    bool
	title  lipgloss.Style
	prompt lipgloss.Style
	tones  map[tone]lipgloss.Style
}

func newConsole(w io.Writer) *console {
	r := lipgloss.NewRenderer(w)
	return &console{
		w:      w,
		tty:    isTTY(w),
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"}),
		prompt: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"}),
		tones: map[tone]lipgloss.Style{
			toneInfo:    r.NewStyle(),
			toneSuccess: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"}),
			toneError:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"}),
		},
	}
}

func (c *console) heading(text string) {
	c.lines(c.title, text)
}

func (c *console) ask(text string) {
	_, _ = io.WriteString(c.w, c.prompt.Render(text))
}

func (c *console) reply(r reply) {
	if r.text == "" {
		return
	}
	c.lines(c.tones[r.tone], r.text)
}

// lines renders each line separately: lipgloss pads multi-line blocks to the widest line.
func (c *console) lines(style lipgloss.Style, text string) {
	var sb strings.Builder
	for _, line := range strings.Split(text, "\n") {
		sb.WriteString(style.Render(line))
		sb.WriteByte('\n')
	}
	_, _ = io.WriteString(c.w, sb.String())
}

// clear erases the screen. Non-terminal writers are left untouched.
func (c *console) clear() {
	if c.tty {
		_, _ = io.WriteString(c.w, config.ANSIClearScreen)
	}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
