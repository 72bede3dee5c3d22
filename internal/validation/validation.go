// Package validation checks user-supplied import paths and sniffs file
// content before it reaches a parser.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Limits on import input.
const (
	// MaxFileSize is the largest accepted import file (256 MB).
	MaxFileSize = 256 << 20
	// MaxPathLength is the longest accepted path.
	MaxPathLength = 4096
	// SniffLength is how many leading bytes Detect needs.
	SniffLength = 512
)

// Common validation errors.
var (
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrNotRegularFile   = errors.New("not a regular file")
	ErrFileTooLarge     = errors.New("file too large")
)

// ValidatePath rejects empty or overlong paths and paths containing null
// bytes or control characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// CheckFileInfo rejects directories, devices and files over MaxFileSize.
func CheckFileInfo(info os.FileInfo) error {
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, info.Name())
	}
	if info.Size() > MaxFileSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, info.Size(), MaxFileSize)
	}
	return nil
}

// FileType is the kind of content found at the start of a file.
type FileType string

const (
	FileTypeXZ      FileType = "xz"
	FileTypeGzip    FileType = "gzip"
	FileTypeZip     FileType = "zip"
	FileTypeSQLite  FileType = "sqlite"
	FileTypeText    FileType = "text"
	FileTypeUnknown FileType = "unknown"
)

// magicBytes are the binary signatures Detect knows.
var magicBytes = []struct {
	fileType FileType
	magic    []byte
}{
	{FileTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{FileTypeGzip, []byte{0x1f, 0x8b}},
	{FileTypeZip, []byte{0x50, 0x4b, 0x03, 0x04}},
	{FileTypeSQLite, []byte("SQLite format 3")},
}

// Detect classifies head, the first SniffLength bytes of a file. An empty
// head is text.
func Detect(head []byte) FileType {
	for _, sig := range magicBytes {
		if bytes.HasPrefix(head, sig.magic) {
			return sig.fileType
		}
	}
	if len(head) == 0 || isLikelyText(head) {
		return FileTypeText
	}
	return FileTypeUnknown
}

// isLikelyText reports whether buf has no null bytes and more than 95%
// printable ASCII among its ASCII bytes. UTF-8 multibyte sequences are
// neutral.
func isLikelyText(buf []byte) bool {
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}
	printable, control := 0, 0
	for _, b := range buf {
		switch {
		case b >= 0x20 && b <= 0x7e, b == '\t', b == '\n', b == '\r':
			printable++
		case b < 0x20:
			control++
		}
	}
	if printable == 0 {
		// all multibyte, e.g. a short CJK line
		return control == 0
	}
	return float64(printable)/float64(printable+control) > 0.95
}
