package reset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// TerminalConfirmer prints the prompt to Out and reads one line from In.
type TerminalConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{In: in, Out: out}
}

func (c *TerminalConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	fmt.Fprintf(c.Out, "%s ", prompt)

	type reply struct {
		line string
		err  error
	}
	replies := make(chan reply, 1)
	go func() {
		line, err := bufio.NewReader(c.In).ReadString('\n')
		replies <- reply{line: line, err: err}
	}()

	// The read cannot be interrupted; on cancellation it is abandoned.
	select {
	case <-ctx.Done():
		fmt.Fprintln(c.Out)
		return false, ctx.Err()
	case r := <-replies:
		if r.err != nil && !errors.Is(r.err, io.EOF) {
			return false, fmt.Errorf("read confirmation: %w", r.err)
		}
		return IsConfirmation(r.line), nil
	}
}

// IsConfirmation reports whether answer is the confirmation token, ignoring
// surrounding whitespace and case.
func IsConfirmation(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), ConfirmationToken)
}
