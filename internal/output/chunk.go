package output

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultChunkSize is the largest part, in characters, handed to the clipboard at once.
	DefaultChunkSize = 90000

	chunkSeparatorPadding = "\n\n\n\n\n"
	chunkSeparatorFormat  = "------ %d character chunk split ------"
)

// Chunk splits text into parts of at most chunkSize characters, breaking only
// on whitespace. Whitespace at a break is dropped and a word longer than
// chunkSize becomes a part of its own rather than being cut. Text that fits is
// returned unchanged as a single part.
func Chunk(text string, chunkSize int) []string {
	if chunkSize <= 0 || utf8.RuneCountInString(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLength := 0
	flush := func() {
		if currentLength == 0 {
			return
		}
		chunks = append(chunks, strings.TrimRightFunc(current.String(), unicode.IsSpace))
		current.Reset()
		currentLength = 0
	}

	for _, run := range splitWhitespaceRuns(text) {
		runLength := utf8.RuneCountInString(run.text)
		if run.isSpace {
			if currentLength == 0 {
				continue
			}
			if currentLength+runLength > chunkSize {
				flush()
				continue
			}
		} else if currentLength > 0 && currentLength+runLength > chunkSize {
			flush()
		}
		current.WriteString(run.text)
		currentLength += runLength
	}
	flush()
	return chunks
}

// SplitSeparator is the marker placed between parts of chunked output.
func SplitSeparator(chunkSize int) string {
	return fmt.Sprintf(chunkSeparatorFormat, chunkSize)
}

// JoinChunks joins parts with the chunk split marker surrounded by blank lines.
func JoinChunks(chunks []string, chunkSize int) string {
	return strings.Join(chunks, chunkSeparatorPadding+SplitSeparator(chunkSize)+chunkSeparatorPadding)
}

// ClipboardParts prefixes every part after the first with the split marker so
// pasted parts still show where the document was cut.
func ClipboardParts(chunks []string, chunkSize int) []string {
	parts := make([]string, len(chunks))
	for chunkIndex, chunk := range chunks {
		if chunkIndex == 0 {
			parts[chunkIndex] = chunk
			continue
		}
		parts[chunkIndex] = SplitSeparator(chunkSize) + chunkSeparatorPadding + chunk
	}
	return parts
}

type textRun struct {
	text    string
	isSpace bool
}

func splitWhitespaceRuns(text string) []textRun {
	var runs []textRun
	start := 0
	inSpace := false
	for index, character := range text {
		isSpace := unicode.IsSpace(character)
		if index == 0 {
			inSpace = isSpace
			continue
		}
		if isSpace != inSpace {
			runs = append(runs, textRun{text: text[start:index], isSpace: inSpace})
			start = index
			inSpace = isSpace
		}
	}
	if start < len(text) {
		runs = append(runs, textRun{text: text[start:], isSpace: inSpace})
	}
	return runs
}
