/*
Package dictionary loads term catalogues from disk.

A catalogue is a line oriented text file. The first line holds the number of
entries, every following line holds a weight and the entry text separated by
whitespace. Text runs to the end of the line and may contain spaces:

	3
	13076300	Buenos Aires, Argentina
	3426354	Berlin, Germany
	121631	Bern, Switzerland

Files ending in .gz or .zst (or starting with their magic bytes) are
decompressed transparently.

Loading is forgiving in the same places as the catalogues it was built for:
a malformed line or a file shorter than its count yields an empty entry with
weight 0 and a warning instead of an error. The returned collection is always
sorted by text, which is what the suggest package requires.
*/
package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bastiangx/typeahead/pkg/term"
	"github.com/charmbracelet/log"
)

// ErrInvalidCount is returned when the leading entry count is missing,
// unparsable or not positive.
var ErrInvalidCount = errors.New("invalid number of terms")

const (
	// maxLineSize bounds a single catalogue line.
	maxLineSize = 1 << 20
	// preallocLimit caps the capacity reserved up front from the declared count.
	preallocLimit = 1 << 16
)

// Options controls how catalogue lines are turned into terms.
type Options struct {
	// MaxTextLen truncates entry text to this many bytes, on a rune
	// boundary. 0 keeps the full text.
	MaxTextLen int
}

// LoaderStats describes the last load.
type LoaderStats struct {
	Declared  int
	Loaded    int
	Malformed int
	Missing   int
	Truncated int
	Format    FileFormat
}

// Loader reads catalogue files into sorted term collections.
type Loader struct {
	opts  Options
	stats LoaderStats
}

// NewLoader creates a Loader with the given options.
func NewLoader(opts Options) *Loader {
	return &Loader{opts: opts}
}

// Load reads a catalogue with default options.
func Load(filename string) (term.Collection, error) {
	return NewLoader(Options{}).Load(filename)
}

// Load reads and sorts the catalogue at filename.
func (l *Loader) Load(filename string) (term.Collection, error) {
	rc, format, err := openCatalogue(filename)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rc.Close(); err != nil {
			log.Errorf("closing catalogue %s: %v", filename, err)
		}
	}()

	terms, err := l.LoadReader(rc, filename)
	l.stats.Format = format
	return terms, err
}

// LoadReader reads and sorts a catalogue from r. name is only used in
// warnings and errors.
func (l *Loader) LoadReader(r io.Reader, name string) (term.Collection, error) {
	l.stats = LoaderStats{Format: FormatText}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	count, line, err := readCount(scanner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	l.stats.Declared = count

	terms := make(term.Collection, 0, min(count, preallocLimit))
	for i := 0; i < count; i++ {
		line++
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading %s at line %d: %w", name, line, err)
			}
			log.Warnf("early end of file at line %d in %s", line, name)
			l.stats.Missing++
			terms = append(terms, term.Term{})
			continue
		}

		t, ok := parseLine(scanner.Text())
		if !ok {
			log.Warnf("malformed line %d in %s", line, name)
			l.stats.Malformed++
			terms = append(terms, term.Term{})
			continue
		}
		if l.opts.MaxTextLen > 0 && len(t.Text) > l.opts.MaxTextLen {
			t.Text = truncate(t.Text, l.opts.MaxTextLen)
			l.stats.Truncated++
		}
		terms = append(terms, t)
		l.stats.Loaded++
	}

	slices.SortStableFunc(terms, term.ByText)
	log.Debugf("Loaded %d/%d terms from %s", l.stats.Loaded, count, name)
	return terms, nil
}

// Stats returns statistics about the last load.
func (l *Loader) Stats() LoaderStats {
	return l.stats
}

// readCount reads the entry count, skipping leading blank lines. It returns
// the line number the count was found on.
func readCount(scanner *bufio.Scanner) (int, int, error) {
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		count, err := strconv.Atoi(strings.Fields(text)[0])
		if err != nil {
			return 0, line, fmt.Errorf("%w: %q", ErrInvalidCount, text)
		}
		if count <= 0 {
			return 0, line, fmt.Errorf("%w: %d", ErrInvalidCount, count)
		}
		return count, line, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, line, err
	}
	return 0, line, fmt.Errorf("%w: empty catalogue", ErrInvalidCount)
}

// parseLine splits "<weight><whitespace><text>". Both parts are required and
// the weight must be finite.
func parseLine(line string) (term.Term, bool) {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	end := strings.IndexFunc(line, unicode.IsSpace)
	if end < 0 {
		return term.Term{}, false
	}

	weight, err := strconv.ParseFloat(line[:end], 64)
	if err != nil || math.IsInf(weight, 0) || math.IsNaN(weight) {
		return term.Term{}, false
	}

	text := strings.TrimSpace(line[end:])
	if text == "" {
		return term.Term{}, false
	}
	return term.New(text, weight), true
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
