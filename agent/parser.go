package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/hupe1980/ragmesh/core"
)

// DefaultMaxDocumentBytes bounds the size of a document read by FileParser.
const DefaultMaxDocumentBytes = 10 << 20

// ErrDocumentTooLarge is returned when a document exceeds the parser limit.
var ErrDocumentTooLarge = errors.New("document too large")

// Parser extracts plain text from a document.
type Parser interface {
	Parse(ctx context.Context, doc core.Document) (string, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(ctx context.Context, doc core.Document) (string, error)

// Parse implements Parser.
func (f ParserFunc) Parse(ctx context.Context, doc core.Document) (string, error) { return f(ctx, doc) }

// FileParser reads documents from Document.Path. Plain text formats (txt, md,
// csv) are returned verbatim. Office and PDF formats need an external
// extraction service; FileParser indexes them by a metadata summary so they
// can still be cited.
type FileParser struct {
	MaxBytes int64
}

// Parse implements Parser.
func (p FileParser) Parse(ctx context.Context, doc core.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !doc.Extension.PlainText() {
		return fmt.Sprintf("%s (%s document, %d bytes)", doc.Name, strings.ToUpper(string(doc.Extension)), doc.SizeBytes), nil
	}
	if doc.Path == "" {
		return "", fmt.Errorf("parse %s: no path", doc.Name)
	}
	limit := p.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxDocumentBytes
	}
	info, err := os.Stat(doc.Path)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", doc.Name, err)
	}
	if info.Size() > limit {
		return "", fmt.Errorf("parse %s: %w (%d > %d bytes)", doc.Name, ErrDocumentTooLarge, info.Size(), limit)
	}
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", doc.Name, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("parse %s: content is not valid UTF-8", doc.Name)
	}
	return string(data), nil
}

// Split cuts text into windows of at most size runes, each starting overlap
// runes before the end of the previous one. Windows that are blank after
// trimming are dropped.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); start += size - overlap {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
