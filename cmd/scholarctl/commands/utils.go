package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	apperrors "scholarship-engine/internal/common/errors"
	"scholarship-engine/internal/models"
)

var (
	boldGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan  = color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow    = color.New(color.FgYellow).SprintFunc()
	red       = color.New(color.FgRed, color.Bold).SprintFunc()
	faint     = color.New(color.Faint).SprintFunc()
)

// readInput reads a file, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func readProfile(path string, stdin io.Reader) (*models.Profile, error) {
	if path == "" {
		return nil, fmt.Errorf("--profile is required")
	}
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}
	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	return &p, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describeError renders a StandardError with its code for the terminal.
func describeError(err error) error {
	stdErr := apperrors.AsStandardError(err)
	if stdErr == nil {
		return nil
	}
	msg := fmt.Sprintf("%s %s", red(string(stdErr.Code)), stdErr.Message)
	if stdErr.Details != "" {
		msg += ": " + stdErr.Details
	}
	if stdErr.Retryable {
		msg += " " + yellow("(retryable)")
	}
	return fmt.Errorf("%s", msg)
}
