package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"

	"github.com/mwg-labs/voicestudio/internal/text"
)

var errNoInput = errors.New("no input: pass a file, --text, --clipboard or pipe text on stdin")

// input is the resolved source of text for a command.
type input struct {
	Text string
	Path string // set when the text came from a file
}

// readInput resolves text in order of precedence: the inline text, the
// clipboard, a file argument, then stdin ("-" or a pipe).
func readInput(inline string, fromClipboard bool, args []string, stdin io.Reader) (input, error) {
	switch {
	case inline != "":
		return checked(input{Text: text.Normalize(inline)})

	case fromClipboard:
		s, err := clipboard.ReadAll()
		if err != nil {
			return input{}, fmt.Errorf("unable to read clipboard: %w", err)
		}
		return checked(input{Text: text.Normalize(s)})

	case len(args) > 0 && args[0] != "-":
		s, err := text.Load(args[0])
		if err != nil {
			return input{}, err
		}
		return input{Text: s, Path: args[0]}, nil
	}

	if len(args) == 0 {
		if yes, err := stdinIsPipe(); err != nil {
			return input{}, err
		} else if !yes {
			return input{}, errNoInput
		}
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return input{}, fmt.Errorf("unable to read from stdin: %w", err)
	}
	s, err := text.Decode(data, ".txt")
	if err != nil {
		return input{}, err
	}
	return input{Text: s}, nil
}

func checked(in input) (input, error) {
	if in.Text == "" {
		return input{}, text.ErrEmptyText
	}
	return in, nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}
