package extract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

const defaultPdftotextTimeout = 25 * time.Second

// CommandExtractor shells out to the pdftotext CLI. Useful where poppler's
// extraction quality beats the built-in parser.
type CommandExtractor struct {
	binary  string
	timeout time.Duration
}

// NewCommandExtractor returns an extractor using the given pdftotext binary.
func NewCommandExtractor(bin string) *CommandExtractor {
	if bin == "" {
		bin = "pdftotext"
	}
	return &CommandExtractor{binary: bin, timeout: defaultPdftotextTimeout}
}

// Extract converts the PDF at path to plain text via pdftotext.
func (e *CommandExtractor) Extract(ctx context.Context, path string) (string, error) {
	if e == nil {
		return "", fmt.Errorf("pdf extractor is nil")
	}
	tmpTxtFile, err := os.CreateTemp("", "pdfcheck-*.txt")
	if err != nil {
		return "", err
	}
	tmpTxt := tmpTxtFile.Name()
	tmpTxtFile.Close()
	defer os.Remove(tmpTxt)

	cmdCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, e.binary, "-layout", path, tmpTxt)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}

	data, err := os.ReadFile(tmpTxt)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
