// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/thoreinstein/mcpi/internal/errors"
)

// Sentinel errors for selection prompts.
var (
	ErrNoChoices          = errors.New("nothing to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector handles interactive numbered selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return &Selector{
		reader: os.Stdin,
		writer: os.Stdout,
	}
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// Select prompts the user to choose one of items, rendering each with label.
//
// Returns:
//   - ErrNoChoices if the list is empty
//   - The item if only one exists (auto-selects without prompting)
//   - The selected item based on user input; empty input picks the first
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func Select[T any](s *Selector, title string, items []T, label func(T) string) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrNoChoices
	}

	if len(items) == 1 {
		return items[0], nil
	}

	fmt.Fprintf(s.writer, "%s:\n", title)
	for i, item := range items {
		fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, label(item))
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(input) == "" {
			return zero, errors.Mark(ErrSelectionCancelled, errors.ErrCancelled)
		}
		if !errors.Is(err, io.EOF) {
			return zero, errors.Wrap(err, "reading selection")
		}
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return items[0], nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return zero, errors.Mark(errors.Wrapf(ErrInvalidSelection, "%q is not a number", input), errors.ErrUsage)
	}

	// 1-indexed
	if selection < 1 || selection > len(items) {
		err := errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(items))
		return zero, errors.Mark(err, errors.ErrUsage)
	}

	return items[selection-1], nil
}
