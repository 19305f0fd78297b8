package tokenizer

import (
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// CountTotal counts the tokens of every part concurrently and returns their sum.
// Parts are counted independently, so the document is usually passed already
// split into chunks.
func CountTotal(counter Counter, parts []string, concurrency int) (int, error) {
	if counter == nil {
		return 0, errNilCounter
	}
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	countPool := pool.NewWithResults[int]().WithErrors().WithMaxGoroutines(concurrency)
	for _, part := range parts {
		countPool.Go(func() (int, error) {
			return counter.CountString(part)
		})
	}
	partTokens, countErr := countPool.Wait()
	if countErr != nil {
		return 0, countErr
	}

	total := 0
	for _, tokens := range partTokens {
		total += tokens
	}
	return total, nil
}
