package tokenizer

import (
	"errors"
	"unicode/utf8"

	"github.com/temirov/cpai/internal/utils"
)

var errNilCounter = errors.New("nil tokenizer counter")

// CountResult captures the outcome of counting one file's bytes.
// Counted is false for binary or non UTF-8 data, which is never tokenized.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountBytes estimates tokens for the provided data using counter.
func CountBytes(counter Counter, data []byte) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errNilCounter
	}
	if len(data) > 0 && (utils.IsBinary(data) || !utf8.Valid(data)) {
		return CountResult{}, nil
	}
	tokens, err := counter.CountString(string(data))
	if err != nil {
		return CountResult{}, err
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}
