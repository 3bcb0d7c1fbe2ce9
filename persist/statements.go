/*
Package persist provides the file-backed collaborators of the engine:
a plain-text statement writer and a JSON snapshot codec.

PURPOSE:
  Keeps all filesystem knowledge out of the engine. The engine hands
  over formatted text and full snapshots; this package decides names,
  directories and formats.
*/
package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gustavoponcell/Barbearia/model"
)

// FileStatementWriter writes statements as timestamped .txt files.
type FileStatementWriter struct{}

// NewFileStatementWriter returns a writer. The target directory is given
// per call so one writer can serve several statement folders.
func NewFileStatementWriter() *FileStatementWriter {
	return &FileStatementWriter{}
}

// SaveStatement writes text under dir and returns the file path as the
// statement reference. A nil customer files under "walk-in".
func (w *FileStatementWriter) SaveStatement(customer *model.Customer, text string, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create statement dir: %w", err)
	}
	name := fmt.Sprintf("statement_%s_%d.txt", slug(customerName(customer)), time.Now().UnixNano())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write statement: %w", err)
	}
	return path, nil
}

func customerName(c *model.Customer) string {
	if c == nil {
		return "walk-in"
	}
	return c.Name
}

// slug lowers a name to a filesystem-safe token.
func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "customer"
	}
	return b.String()
}
