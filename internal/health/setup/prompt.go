package setup

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// prompter wraps interactive input for the wizard.
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// ask prints a prompt and reads one line of input.
func (p *prompter) ask(prompt string) string {
	fmt.Fprintf(p.out, "%s ", prompt)
	if p.scanner.Scan() {
		return strings.TrimSpace(p.scanner.Text())
	}
	return ""
}

// askDefault prints a prompt with a default value shown in brackets.
func (p *prompter) askDefault(prompt, defaultVal string) string {
	answer := p.ask(fmt.Sprintf("%s [%s]:", prompt, defaultVal))
	if answer == "" {
		return defaultVal
	}
	return answer
}

// askInt re-prompts until the answer is an integer within [min, max].
func (p *prompter) askInt(prompt string, defaultVal, min, max int) int {
	for {
		answer := p.askDefault(prompt, strconv.Itoa(defaultVal))
		n, err := strconv.Atoi(answer)
		if err == nil && n >= min && n <= max {
			return n
		}
		fmt.Fprintf(p.out, "Please enter a number between %d and %d.\n", min, max)
		if answer == strconv.Itoa(defaultVal) {
			return defaultVal
		}
	}
}

// askFloat re-prompts until the answer is a non-negative number.
func (p *prompter) askFloat(prompt string, defaultVal float64) float64 {
	def := strconv.FormatFloat(defaultVal, 'f', -1, 64)
	for {
		answer := p.askDefault(prompt, def)
		f, err := strconv.ParseFloat(answer, 64)
		if err == nil && f >= 0 {
			return f
		}
		fmt.Fprintln(p.out, "Please enter a non-negative number.")
		if answer == def {
			return defaultVal
		}
	}
}

// askYesNo prints a y/n prompt and returns true for yes.
func (p *prompter) askYesNo(prompt string, defaultYes bool) bool {
	suffix := "[y/N]"
	if defaultYes {
		suffix = "[Y/n]"
	}
	answer := strings.ToLower(p.ask(fmt.Sprintf("%s %s:", prompt, suffix)))
	switch answer {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultYes
	}
}

// askChoice prints numbered options and returns the selected value. An
// empty answer keeps the current value.
func (p *prompter) askChoice(prompt string, options []string, current string) string {
	fmt.Fprintln(p.out, prompt)
	for i, opt := range options {
		marker := " "
		if opt == current {
			marker = "*"
		}
		fmt.Fprintf(p.out, " %s[%d] %s\n", marker, i+1, opt)
	}
	for {
		answer := p.ask("Choice:")
		if answer == "" {
			return current
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return options[n-1]
		}
		fmt.Fprintf(p.out, "Please enter a number between 1 and %d.\n", len(options))
	}
}
