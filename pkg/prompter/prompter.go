// Package prompter reads interactive input for the form commands
package prompter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var (
	in  = bufio.NewReader(os.Stdin)
	out io.Writer = os.Stdout

	// stdin is a terminal; passwords are read without echo
	interactive = term.IsTerminal(int(os.Stdin.Fd()))
)

// SetIO replaces stdin/stdout. Passwords are read as plain lines afterwards.
// It returns a func that restores the previous streams.
func SetIO(r io.Reader, w io.Writer) (restore func()) {
	prevIn, prevOut, prevInteractive := in, out, interactive
	in, out, interactive = bufio.NewReader(r), w, false
	return func() { in, out, interactive = prevIn, prevOut, prevInteractive }
}

func readLine() (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// PromptString prompts user for a string input
func PromptString(label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptDefault prompts with a prefilled value; an empty answer keeps it
func PromptDefault(label, current string) (string, error) {
	if current != "" {
		label = fmt.Sprintf("%s[%s] ", label, current)
	}
	v, err := PromptString(label)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

// PromptPassword prompts user for a password (hidden input)
func PromptPassword(label string) (string, error) {
	fmt.Fprint(out, label)

	if !interactive {
		return readLine()
	}

	bytepw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	fmt.Fprintln(out)
	return string(bytepw), nil
}

// PromptConfirm prompts user for yes/no confirmation
func PromptConfirm(label string) (bool, error) {
	fmt.Fprint(out, label+" (y/n) ")
	line, err := readLine()
	if err != nil {
		return false, err
	}

	response := strings.TrimSpace(strings.ToLower(line))
	return response == "y" || response == "yes", nil
}

// PromptSelect prompts user to select from options
func PromptSelect(label string, options []string) (int, error) {
	fmt.Fprintln(out, label)
	for i, opt := range options {
		fmt.Fprintf(out, "%d) %s\n", i+1, opt)
	}

	fmt.Fprint(out, "Select option: ")
	line, err := readLine()
	if err != nil {
		return -1, err
	}

	var selection int
	if _, err := fmt.Sscanf(strings.TrimSpace(line), "%d", &selection); err != nil {
		return -1, fmt.Errorf("invalid selection")
	}
	if selection < 1 || selection > len(options) {
		return -1, fmt.Errorf("invalid selection")
	}
	return selection - 1, nil
}

// PromptMultilineString reads lines until an empty line or maxLines
func PromptMultilineString(label string, maxLines int) (string, error) {
	fmt.Fprintf(out, "%s (empty line to finish):\n", label)

	var lines []string
	for i := 0; i < maxLines; i++ {
		line, err := readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
