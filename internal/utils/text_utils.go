package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/mikey/spam-classifier/internal/core"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
)

var utf16Encoding = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// TextProcessor provides utilities for processing text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText safely truncates text to the specified maximum size
// and ensures the result is valid UTF-8
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	// If no limit or text is already within limits, return as is
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	// First truncate to the byte limit
	truncated := text[:maxSize]

	// Drop a partial rune left at the cut
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	tp.logger.Debug("Text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxSize))

	return truncated + "\n[... Content truncated due to size limits ...]"
}

// SanitizeUTF8 drops invalid UTF-8 sequences from the string
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				continue
			}
		}
		result = append(result, r)
	}

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(string(result))))

	return string(result)
}

// ProcessText truncates and sanitizes text in one operation
func (tp *TextProcessor) ProcessText(text string, maxSize int) string {
	return tp.SanitizeUTF8(tp.TruncateText(text, maxSize))
}

// CountCharacters counts UTF-16 code units, the unit browsers use for a
// textarea's length. Characters outside the BMP count twice.
func (tp *TextProcessor) CountCharacters(text string) int {
	encoded, err := utf16Encoding.NewEncoder().String(strings.ToValidUTF8(text, "\uFFFD"))
	if err != nil {
		tp.logger.Debug("Failed to encode text as UTF-16", zap.Error(err))
		return utf8.RuneCountInString(text)
	}
	return len(encoded) / 2
}

// InputStats reports the character count against the advisory limit.
// A non-positive limit never reports the input as exceeded.
func (tp *TextProcessor) InputStats(text string, limit int) core.InputStats {
	length := tp.CountCharacters(text)
	return core.InputStats{
		Length:   length,
		Limit:    limit,
		Exceeded: limit > 0 && length > limit,
	}
}
