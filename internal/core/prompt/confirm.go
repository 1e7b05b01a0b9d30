// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Answer is the outcome of parsing one line of operator input
type Answer int

const (
	// Invalid input means the question is asked again
	Invalid Answer = iota
	Yes
	No
)

var hint = color.New(color.Bold, color.Faint).SprintFunc()

// ParseAnswer interprets a reply to a yes/no question. Matching is
// case-insensitive and an empty reply means no.
func ParseAnswer(input string) Answer {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return Yes
	case "n", "no", "":
		return No
	default:
		return Invalid
	}
}

// Confirm asks question until the reply parses. End of input counts as an
// empty reply.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "%s (y,n) [Default 'n']: ", question)

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("error reading answer: %w", err)
		}

		switch ParseAnswer(line) {
		case Yes:
			return true, nil
		case No:
			return false, nil
		}

		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return false, nil
		}
		fmt.Fprintln(out, hint("Invalid input, please try again"))
	}
}
