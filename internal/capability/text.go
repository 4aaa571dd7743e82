package capability

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// textReader reads a file as text. UTF-16 files are detected by their BOM;
// anything else is decoded as UTF-8 with invalid bytes replaced by U+FFFD.
type textReader struct{}

func (textReader) Extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return decodeText(data)
}

func decodeText(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	text, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(text), nil
}
