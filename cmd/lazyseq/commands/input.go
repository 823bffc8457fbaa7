package commands

import (
	"fmt"
	"io"
	"os"
)

// stdinArg selects standard input instead of a file.
const stdinArg = "-"

// readInput reads path, or in when path is "-". The label names the source in messages.
func readInput(path string, in io.Reader) (data []byte, label string, err error) {
	if path == stdinArg {
		data, err = io.ReadAll(in)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}

		return data, "stdin", nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}

	return data, path, nil
}
