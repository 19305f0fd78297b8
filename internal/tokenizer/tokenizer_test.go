package tokenizer

import (
	"errors"
	"testing"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type failingCounter struct{}

func (failingCounter) Name() string { return "failing" }

func (failingCounter) CountString(string) (int, error) { return 0, errors.New("encoder unavailable") }

func TestCountBytesText(t *testing.T) {
	result, err := CountBytes(testCounter{}, []byte("hello"))
	if err != nil {
		t.Fatalf("CountBytes error: %v", err)
	}
	if !result.Counted {
		t.Fatalf("expected counted result")
	}
	if result.Tokens != len([]rune("hello")) {
		t.Fatalf("expected %d tokens, got %d", len([]rune("hello")), result.Tokens)
	}
}

func TestCountBytesBinary(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02}
	result, err := CountBytes(testCounter{}, data)
	if err != nil {
		t.Fatalf("CountBytes error: %v", err)
	}
	if result.Counted {
		t.Fatalf("expected binary data to be skipped")
	}
}

func TestCountTotal(t *testing.T) {
	testCases := []struct {
		name     string
		parts    []string
		expected int
	}{
		{name: "no parts", parts: nil, expected: 0},
		{name: "single part", parts: []string{"hello"}, expected: 5},
		{name: "many parts", parts: []string{"ab", "cde", "", "f"}, expected: 6},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			total, err := CountTotal(testCounter{}, testCase.parts, 2)
			if err != nil {
				t.Fatalf("CountTotal error: %v", err)
			}
			if total != testCase.expected {
				t.Fatalf("expected %d tokens, got %d", testCase.expected, total)
			}
		})
	}
}

func TestCountTotalPropagatesErrors(t *testing.T) {
	if _, err := CountTotal(failingCounter{}, []string{"a", "b"}, 0); err == nil {
		t.Fatalf("expected error from failing counter")
	}
	if _, err := CountTotal(nil, []string{"a"}, 1); err == nil {
		t.Fatalf("expected error for nil counter")
	}
}

func TestIsOpenAIModel(t *testing.T) {
	testCases := map[string]bool{
		"gpt-4o":                 true,
		"text-embedding-3-small": true,
		"o1-mini":                true,
		"claude-3-5-sonnet":      false,
		"llama-3":                false,
	}
	for model, expected := range testCases {
		if actual := isOpenAIModel(model); actual != expected {
			t.Fatalf("isOpenAIModel(%q) = %v, want %v", model, actual, expected)
		}
	}
}

func TestNewCounterDefault(t *testing.T) {
	counter, model, err := NewCounter(Config{})
	if err != nil {
		t.Skipf("tokenizer encoding unavailable: %v", err)
	}
	if counter == nil {
		t.Fatalf("expected non-nil counter")
	}
	if model != DefaultModel {
		t.Fatalf("expected model %s, got %q", DefaultModel, model)
	}
	tokens, err := counter.CountString("hello world")
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	if tokens <= 0 {
		t.Fatalf("expected positive token count, got %d", tokens)
	}
}
