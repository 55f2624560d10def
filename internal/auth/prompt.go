package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Prompter asks the user for a value.
type Prompter interface {
	PromptLine(label string) (string, error)
	// PromptSecret must not echo the answer when attached to a terminal.
	PromptSecret(label string) (string, error)
}

var promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)

// TerminalPrompter reads answers from in, one per line.
type TerminalPrompter struct {
	in     *bufio.Reader
	fd     int
	isTerm bool
	out    io.Writer
}

func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	p := &TerminalPrompter{
		in:  bufio.NewReader(in),
		fd:  -1,
		out: out,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.isTerm = true
	}
	return p
}

func (p *TerminalPrompter) PromptLine(label string) (string, error) {
	fmt.Fprint(p.out, promptStyle.Render(label+": "))
	return p.readLine()
}

func (p *TerminalPrompter) PromptSecret(label string) (string, error) {
	fmt.Fprint(p.out, promptStyle.Render(label+": "))
	if !p.isTerm {
		return p.readLine()
	}

	secret, err := term.ReadPassword(p.fd)
	// The newline typed by the user was swallowed along with the echo
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(string(secret)), nil
}

func (p *TerminalPrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
