// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"
)

const (
	partCopiedFormat    = "Part %d of %d copied to clipboard\n"
	nextPartPrompt      = "Press Enter when ready for the next part..."
	copyPartErrorFormat = "copy part %d of %d to clipboard: %w"
	readPromptFormat    = "waiting for the next clipboard part: %w"
)

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a Clipboard service implementation.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)

// IsInteractive reports whether file is attached to a terminal that can answer prompts.
func IsInteractive(file *os.File) bool {
	if file == nil {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// Delivery hands a document to the clipboard one part at a time. The user
// confirms each following part on Input, since the clipboard holds one value.
type Delivery struct {
	Copier Copier
	Input  io.Reader
	Output io.Writer
}

// Deliver copies parts in order, prompting on Output before each part after the first.
func (delivery Delivery) Deliver(parts []string) error {
	output := delivery.Output
	if output == nil {
		output = io.Discard
	}
	var confirmations *bufio.Reader
	if delivery.Input != nil {
		confirmations = bufio.NewReader(delivery.Input)
	}

	for partIndex, part := range parts {
		if copyError := delivery.Copier.Copy(part); copyError != nil {
			return fmt.Errorf(copyPartErrorFormat, partIndex+1, len(parts), copyError)
		}
		fmt.Fprintf(output, partCopiedFormat, partIndex+1, len(parts))
		if partIndex == len(parts)-1 || confirmations == nil {
			continue
		}
		fmt.Fprint(output, nextPartPrompt)
		if _, readError := confirmations.ReadString('\n'); readError != nil && !errors.Is(readError, io.EOF) {
			return fmt.Errorf(readPromptFormat, readError)
		}
		fmt.Fprintln(output)
	}
	return nil
}
