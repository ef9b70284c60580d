package workspace

import (
	"bytes"
	"fmt"
	"io"
	"os"

	coreerrors "github.com/syntaxpresso/core/internal/errors"
)

// FileValidator checks a file before it is loaded fully, so an oversized or
// binary file saved with a .java extension never reaches the parser
type FileValidator struct {
	ValidationThreshold int64 // Files larger than this have their header checked
	MaxSize             int64
	HeaderSize          int64
}

func NewFileValidator(threshold, maxSize int64) *FileValidator {
	return &FileValidator{
		ValidationThreshold: threshold,
		MaxSize:             maxSize,
		HeaderSize:          64 * 1024,
	}
}

// Validate stats path and, for large files, inspects its header
func (fv *FileValidator) Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return coreerrors.NewFileError("stat", path, err)
	}
	if info.IsDir() {
		return coreerrors.NewValidationError("path", path, "is a directory")
	}
	if fv.MaxSize > 0 && info.Size() > fv.MaxSize {
		return coreerrors.NewValidationError("path", path, fmt.Sprintf("file exceeds %d bytes", fv.MaxSize))
	}
	if info.Size() <= fv.ValidationThreshold {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return coreerrors.NewFileError("open", path, err)
	}
	defer f.Close()

	header := make([]byte, fv.HeaderSize)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return coreerrors.NewFileError("read", path, err)
	}
	header = header[:n]

	if bytes.HasPrefix(header, classFileMagic) {
		return coreerrors.NewValidationError("path", path, "is a compiled class file")
	}
	if isBinaryData(header) {
		return coreerrors.NewValidationError("path", path, "file appears to be binary")
	}
	if !looksLikeJava(header) {
		return coreerrors.NewValidationError("path", path, "no Java constructs found in file header")
	}
	return nil
}

var classFileMagic = []byte{0xCA, 0xFE, 0xBA, 0xBE}

// isBinaryData reports more than 30% control characters
func isBinaryData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	nonPrintable := 0
	for _, b := range data {
		// Control characters other than tab, LF and CR, plus DEL
		if b < 9 || (b > 13 && b < 32) || b == 127 {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(data)) > 0.3
}

var javaPatterns = [][]byte{
	[]byte("package "),
	[]byte("import "),
	[]byte("class "),
	[]byte("interface "),
	[]byte("enum "),
	[]byte("record "),
	[]byte("@interface"),
	[]byte("public "),
}

func looksLikeJava(header []byte) bool {
	for _, pattern := range javaPatterns {
		if bytes.Contains(header, pattern) {
			return true
		}
	}
	return false
}
