package output_test

import (
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/temirov/cpai/internal/output"
)

func TestChunk(testingInstance *testing.T) {
	testCases := []struct {
		name      string
		text      string
		chunkSize int
		expected  []string
	}{
		{name: "fits", text: "alpha beta", chunkSize: 20, expected: []string{"alpha beta"}},
		{name: "empty", text: "", chunkSize: 5, expected: []string{""}},
		{name: "breaks on whitespace", text: "alpha beta gamma", chunkSize: 10, expected: []string{"alpha beta", "gamma"}},
		{name: "keeps newlines inside parts", text: "ab\ncd ef gh", chunkSize: 5, expected: []string{"ab\ncd", "ef gh"}},
		{name: "long word is not broken", text: "a supercalifragilistic b", chunkSize: 5, expected: []string{"a", "supercalifragilistic", "b"}},
		{name: "counts characters not bytes", text: "héllo wörld", chunkSize: 5, expected: []string{"héllo", "wörld"}},
		{name: "non positive size disables chunking", text: "alpha beta", chunkSize: 0, expected: []string{"alpha beta"}},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(subTest *testing.T) {
			actual := output.Chunk(testCase.text, testCase.chunkSize)
			if !slices.Equal(actual, testCase.expected) {
				subTest.Errorf("expected %q, got %q", testCase.expected, actual)
			}
		})
	}
}

func TestChunkRespectsSize(testingInstance *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet\n", 200)
	const chunkSize = 100
	chunks := output.Chunk(text, chunkSize)
	if len(chunks) < 2 {
		testingInstance.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for chunkIndex, chunk := range chunks {
		if utf8.RuneCountInString(chunk) > chunkSize {
			testingInstance.Fatalf("chunk %d exceeds %d characters: %d", chunkIndex, chunkSize, utf8.RuneCountInString(chunk))
		}
	}
	if strings.Join(strings.Fields(strings.Join(chunks, " ")), " ") != strings.Join(strings.Fields(text), " ") {
		testingInstance.Fatalf("chunking lost or reordered words")
	}
}

func TestJoinChunksAndClipboardParts(testingInstance *testing.T) {
	chunks := []string{"first", "second"}
	joined := output.JoinChunks(chunks, 90000)
	if joined != "first\n\n\n\n\n------ 90000 character chunk split ------\n\n\n\n\nsecond" {
		testingInstance.Fatalf("unexpected joined output %q", joined)
	}
	if single := output.JoinChunks([]string{"only"}, 10); single != "only" {
		testingInstance.Fatalf("single chunk must be unchanged, got %q", single)
	}

	parts := output.ClipboardParts(chunks, 90000)
	if parts[0] != "first" {
		testingInstance.Fatalf("first part must be unprefixed, got %q", parts[0])
	}
	if parts[1] != "------ 90000 character chunk split ------\n\n\n\n\nsecond" {
		testingInstance.Fatalf("unexpected second part %q", parts[1])
	}
}
