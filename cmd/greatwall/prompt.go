package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

var errInputClosed = errors.New("input closed")

type prompter interface {
	// Select returns one of options.
	Select(title string, options []string) (string, error)
	// Int returns a number in [min, max].
	Int(title string, min, max int) (int, error)
	// Secret reads a line without echoing it when possible.
	Secret(title string) (string, error)
}

// newPrompter uses huh forms when in is a terminal and plain is false,
// otherwise one answer per input line.
func newPrompter(in io.Reader, out io.Writer, plain bool) prompter {
	if f, ok := in.(*os.File); ok && !plain && isTerminal(f) {
		return huhPrompter{}
	}
	return &linePrompter{r: bufio.NewReader(in), w: out}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func parseInRange(s string, min, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("enter a number")
	}
	if n < min || n > max {
		return 0, fmt.Errorf("enter a number from %d to %d", min, max)
	}
	return n, nil
}

type huhPrompter struct{}

func (huhPrompter) Select(title string, options []string) (string, error) {
	var v string
	err := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&v).
		Run()
	return v, err
}

func (huhPrompter) Int(title string, min, max int) (int, error) {
	var s string
	err := huh.NewInput().
		Title(title).
		Validate(func(s string) error {
			_, err := parseInRange(s, min, max)
			return err
		}).
		Value(&s).
		Run()
	if err != nil {
		return 0, err
	}
	return parseInRange(s, min, max)
}

func (huhPrompter) Secret(title string) (string, error) {
	var s string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&s).
		Run()
	return s, err
}

type linePrompter struct {
	r *bufio.Reader
	w io.Writer
}

func (p *linePrompter) line(title string) (string, error) {
	fmt.Fprintf(p.w, "%s: ", title)
	s, err := p.r.ReadString('\n')
	if err != nil && (s == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			return "", errInputClosed
		}
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func (p *linePrompter) Select(title string, options []string) (string, error) {
	for i, o := range options {
		fmt.Fprintf(p.w, "  %d) %s\n", i+1, o)
	}
	for {
		s, err := p.line(title)
		if err != nil {
			return "", err
		}
		s = strings.TrimSpace(s)
		for _, o := range options {
			if strings.EqualFold(s, o) {
				return o, nil
			}
		}
		if n, err := parseInRange(s, 1, len(options)); err == nil {
			return options[n-1], nil
		}
		fmt.Fprintln(p.w, styles.warn.Render("pick one of the listed options"))
	}
}

func (p *linePrompter) Int(title string, min, max int) (int, error) {
	for {
		s, err := p.line(title)
		if err != nil {
			return 0, err
		}
		n, err := parseInRange(s, min, max)
		if err == nil {
			return n, nil
		}
		fmt.Fprintln(p.w, styles.warn.Render(err.Error()))
	}
}

func (p *linePrompter) Secret(title string) (string, error) {
	return p.line(title)
}
