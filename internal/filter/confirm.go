package filter

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the operator to approve a destructive action. Only
// "y" or "Y" count as approval; anything else, including an empty
// line or a read error, declines.
type Confirmer interface {
	Confirm(prompt string) bool
}

type terminalConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalConfirmer returns a Confirmer that writes the prompt to
// out and reads one line from in.
func NewTerminalConfirmer(in io.Reader, out io.Writer) Confirmer {
	return &terminalConfirmer{in: bufio.NewReader(in), out: out}
}

func (c *terminalConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}
