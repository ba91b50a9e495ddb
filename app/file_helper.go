package app

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/constants"
)

// FileHelper provides file operation utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// IsDiagramFile checks if a file has one of the accepted diagram extensions
func (h *FileHelper) IsDiagramFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range constants.DiagramExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// FileExists checks if a file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ResolveDiagram checks that path names an existing diagram file
func (h *FileHelper) ResolveDiagram(path string) (string, error) {
	if path == "" {
		return "", domain.NewInvalidInputError("no diagram specified", nil)
	}
	if !h.IsDiagramFile(path) {
		return "", domain.NewInvalidInputError(
			fmt.Sprintf("not a diagram file: %s (expected one of %s)", path, strings.Join(constants.DiagramExtensions, ", ")), nil)
	}
	exists, err := h.FileExists(path)
	if err != nil {
		return "", domain.NewInvalidInputError(path, err)
	}
	if !exists {
		return "", domain.NewInvalidInputError(fmt.Sprintf("diagram not found: %s", path), nil)
	}
	return path, nil
}

// ReadContext reads a plain-text context document. An empty path yields
// empty text.
func (h *FileHelper) ReadContext(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", domain.NewInvalidInputError(fmt.Sprintf("cannot read context %s", path), err)
	}
	if !utf8.Valid(data) {
		return "", domain.NewInvalidInputError(fmt.Sprintf("context %s is not UTF-8 text", path), nil)
	}
	return string(data), nil
}

// WriteOutput creates path (and its directory) and hands a buffered
// writer to write
func (h *FileHelper) WriteOutput(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.NewOutputError(fmt.Sprintf("cannot create directory %s", dir), err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("cannot create %s", path), err)
	}

	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return domain.NewOutputError(fmt.Sprintf("cannot write %s", path), err)
	}
	if err := f.Close(); err != nil {
		return domain.NewOutputError(fmt.Sprintf("cannot close %s", path), err)
	}
	return nil
}
