package dictionary

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrUnknownFormat is returned for a FileFormat this package cannot read.
var ErrUnknownFormat = errors.New("unknown catalogue format")

// FileFormat represents the different catalogue file encodings
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // Plain text catalogue
	FormatGzip               // Gzip compressed text catalogue
	FormatZstd               // Zstandard compressed text catalogue
)

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return fmt.Sprintf("unknown(%d)", int(f))
}

// FormatInfo contains metadata about a catalogue file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	Magic       []byte
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Catalogue",
		Extensions:  []string{".txt"},
		MinSize:     1, // At least the count digit
	},
	FormatGzip: {
		Format:      FormatGzip,
		Description: "Gzip Catalogue",
		Extensions:  []string{".gz"},
		Magic:       []byte{0x1f, 0x8b},
		MinSize:     18, // gzip header + trailer
	},
	FormatZstd: {
		Format:      FormatZstd,
		Description: "Zstandard Catalogue",
		Extensions:  []string{".zst", ".zstd"},
		Magic:       []byte{0x28, 0xb5, 0x2f, 0xfd},
		MinSize:     9, // frame magic + header
	},
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("%w: %v", ErrUnknownFormat, expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	if len(formatInfo.Magic) == 0 {
		return nil
	}

	header, err := readHeader(filename, len(formatInfo.Magic))
	if err != nil {
		return err
	}
	if !bytes.Equal(header, formatInfo.Magic) {
		return fmt.Errorf("file %s does not start with the %s magic bytes", filename, formatInfo.Description)
	}
	log.Debugf("Catalogue %s validated as %s", filename, formatInfo.Description)
	return nil
}

// DetectFileFormat picks the format of a catalogue file from its extension,
// falling back to its leading bytes. Anything unrecognised is read as text.
func DetectFileFormat(filename string) FileFormat {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, format := range []FileFormat{FormatGzip, FormatZstd} {
		for _, e := range supportedFormats[format].Extensions {
			if ext == e {
				return format
			}
		}
	}

	header, err := readHeader(filename, 4)
	if err != nil {
		return FormatText
	}
	for _, format := range []FileFormat{FormatGzip, FormatZstd} {
		if bytes.HasPrefix(header, supportedFormats[format].Magic) {
			return format
		}
	}
	return FormatText
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// openCatalogue opens filename and wraps it in the decompressor its format needs.
func openCatalogue(filename string) (io.ReadCloser, FileFormat, error) {
	format := DetectFileFormat(filename)

	file, err := os.Open(filename)
	if err != nil {
		return nil, format, fmt.Errorf("failed to open catalogue %s: %w", filename, err)
	}

	switch format {
	case FormatGzip:
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, format, fmt.Errorf("failed to read gzip catalogue %s: %w", filename, err)
		}
		return &stackedCloser{Reader: gz, closers: []io.Closer{gz, file}}, format, nil
	case FormatZstd:
		dec, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, format, fmt.Errorf("failed to read zstd catalogue %s: %w", filename, err)
		}
		rc := dec.IOReadCloser()
		return &stackedCloser{Reader: rc, closers: []io.Closer{rc, file}}, format, nil
	default:
		return file, format, nil
	}
}

// stackedCloser closes a decompressor before the file underneath it.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func readHeader(filename string, n int) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	header := make([]byte, n)
	read, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	return header[:read], nil
}
