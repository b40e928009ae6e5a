package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/MKhiriev/go-pong-guard/internal/session"
)

// LinePrompter implements [session.Prompter] on a plain line-oriented
// terminal. Passwords are read without echo when the input is a terminal.
type LinePrompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer

	title  *color.Color
	errors *color.Color
	notice *color.Color
}

// NewLinePrompter returns a LinePrompter over in and out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:     in,
		reader: bufio.NewReader(in),
		out:    out,
		title:  color.New(color.Bold),
		errors: color.New(color.FgRed, color.Bold),
		notice: color.New(color.FgGreen),
	}
}

// PromptPassword implements [session.Prompter].
func (p *LinePrompter) PromptPassword(ctx context.Context, req session.PromptRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if req.Error != "" {
		p.errors.Fprintln(p.out, req.Error)
	}
	p.title.Fprintln(p.out, req.Purpose.Title())
	fmt.Fprint(p.out, "Password: ")

	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && (line == "" || err != io.EOF) {
		if err == io.EOF {
			return "", ErrUserQuit
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// DisplayMessage implements [session.Prompter].
func (p *LinePrompter) DisplayMessage(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.notice.Fprintln(p.out, text)
	return err
}
