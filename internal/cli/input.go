// Package cli is an interactive prompt over a Completer, for debugging
// catalogues and trying prefixes by hand.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

const rangeCommand = ":range"

var (
	wordStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	weightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// InputHandler reads prefixes line by line and prints the completions.
// Lines starting with ":range " print the matching index range instead.
type InputHandler struct {
	completer       suggest.ICompleter
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	requestCount    int
	noFilter        bool
	in              io.Reader
	out             io.Writer
}

// NewInputHandler creates an InputHandler reading stdin and writing stdout.
func NewInputHandler(completer suggest.ICompleter, minLength, maxLength, limit int, noFilter bool) *InputHandler {
	return NewInputHandlerWithIO(completer, minLength, maxLength, limit, noFilter, os.Stdin, os.Stdout)
}

// NewInputHandlerWithIO is NewInputHandler with explicit streams.
func NewInputHandlerWithIO(completer suggest.ICompleter, minLength, maxLength, limit int, noFilter bool, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		completer:       completer,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
		in:              in,
		out:             out,
	}
}

// Start runs the prompt loop until input ends. End of input is not an error.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, "Typeahead CLI")
	fmt.Fprintln(h.out, "type a prefix and press Enter (Ctrl+D to exit, ':range <prefix>' for bounds):")
	reader := bufio.NewReader(h.in)

	for {
		fmt.Fprint(h.out, "> ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	if rest, ok := strings.CutPrefix(line, rangeCommand); ok {
		h.handleRange(strings.TrimSpace(rest))
		return
	}

	prefix := line
	if len(prefix) < h.minPrefixLength {
		log.Errorf("Prefix too short: %s (%d bytes, min %d)", prefix, len(prefix), h.minPrefixLength)
		return
	}
	if len(prefix) > h.maxPrefixLength {
		log.Errorf("Prefix too long: %s (%d bytes, max %d)", prefix, len(prefix), h.maxPrefixLength)
		return
	}

	if !h.noFilter && !utils.IsValidInput(prefix) {
		fmt.Fprintf(h.out, "No results for '%s'\n", prefix)
		return
	}

	start := time.Now()
	suggestions := h.completer.Complete(prefix, h.suggestLimit)
	log.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), prefix)

	if len(suggestions) == 0 {
		fmt.Fprintf(h.out, "No results for '%s'\n", prefix)
		return
	}

	fmt.Fprintf(h.out, "Found %d suggestions for '%s':\n", len(suggestions), prefix)
	for i, s := range suggestions {
		fmt.Fprintf(h.out, "%2d. %-40s %s\n", i+1,
			wordStyle.Render(s.Text),
			weightStyle.Render("("+humanize.Commaf(s.Weight)+")"))
	}
}

func (h *InputHandler) handleRange(prefix string) {
	lo, hi, ok := h.completer.Range(prefix)
	if !ok {
		fmt.Fprintf(h.out, "No match for '%s'\n", prefix)
		return
	}
	fmt.Fprintf(h.out, "'%s' spans [%d, %d] (%s terms)\n", prefix, lo, hi, humanize.Comma(int64(hi-lo+1)))
}
