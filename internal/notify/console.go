// SPDX-License-Identifier: MPL-2.0

package notify

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const defaultWrapWidth = 80

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// Console writes notifications to a stream, usually stderr.
type Console struct {
	out        io.Writer
	isTerminal bool
	width      int
}

// NewConsole creates a console notifier writing to w. Markdown is rendered
// only when w is a terminal.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stderr
	}

	c := &Console{out: w, width: defaultWrapWidth}
	if f, ok := w.(*os.File); ok {
		fd := int(f.Fd())
		c.isTerminal = term.IsTerminal(fd)
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			c.width = width
		}
	}
	return c
}

// Notify writes n to the console.
func (c *Console) Notify(n Notification) error {
	if c.isTerminal && !n.Plain && n.Markdown != "" {
		rendered, err := renderMarkdown(n.Markdown, c.width)
		if err == nil {
			_, err = io.WriteString(c.out, rendered)
			return err
		}
		slog.Debug("markdown rendering failed, using plain text", "error", err)
	}

	var b strings.Builder
	if n.Title != "" {
		b.WriteString(titleStyle.Render(n.Title))
		b.WriteString(": ")
	}
	b.WriteString(messageStyle.Render(n.Message))
	_, err := fmt.Fprintln(c.out, b.String())
	return err
}

func renderMarkdown(md string, width int) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}
