package iojson

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader reads command input from the file named by its flag, or from
// stdin when the flag is empty.
type FileReader[T any] struct {
	fileFlagValue string
	stdin         io.Reader
}

// Flag returns the --file flag bound to the reader.
func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to input file (reads from stdin if not provided)",
		Destination: &fr.fileFlagValue,
	}
}

// Path returns the file named on the command line, if any.
func (fr *FileReader[T]) Path() string {
	return fr.fileFlagValue
}

// SetPath overrides the flag value, for commands that also accept the file
// as a positional argument.
func (fr *FileReader[T]) SetPath(path string) {
	fr.fileFlagValue = path
}

// ReadBytes returns the raw input.
func (fr *FileReader[T]) ReadBytes() ([]byte, error) {
	if fr.fileFlagValue != "" {
		data, err := os.ReadFile(fr.fileFlagValue)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		return data, nil
	}

	reader := fr.stdin
	if reader == nil {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe input")
		}
		reader = os.Stdin
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

// Read decodes the input as JSON into T.
func (fr *FileReader[T]) Read() (T, error) {
	var input T

	data, err := fr.ReadBytes()
	if err != nil {
		return input, err
	}

	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}

	return input, nil
}
