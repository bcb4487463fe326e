package reachability

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// CredentialPrompter asks the user for the credentials of a share.
type CredentialPrompter interface {
	// Principal asks for the account name used to map sharePath.
	Principal(sharePath string) (string, error)
	// Secret asks for the secret belonging to principal.
	Secret(principal string) (string, error)
}

// TerminalPrompter reads credentials interactively. The secret is read
// without echo when In is a terminal.
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

var _ CredentialPrompter = (*TerminalPrompter)(nil)

func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{In: os.Stdin, Out: os.Stderr}
}

func (p *TerminalPrompter) Principal(sharePath string) (string, error) {
	fmt.Fprintf(p.Out, "Username for %s (DOMAIN\\user): ", sharePath)
	return p.readLine()
}

func (p *TerminalPrompter) Secret(principal string) (string, error) {
	fmt.Fprintf(p.Out, "Password for %s: ", principal)
	fd := int(p.In.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return string(secret), nil
	}
	// Non-interactive input, e.g. a pipe. Echo cannot be suppressed here.
	return p.readLine()
}

func (p *TerminalPrompter) readLine() (string, error) {
	reader := bufio.NewReader(p.In)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
