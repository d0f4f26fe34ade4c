// Package content loads the reader's text.
package content

import (
	"errors"
	"fmt"
	"strings"

	"inkdash/hal"
)

// DefaultName is the reader text in the storage root.
const DefaultName = "book.txt"

var ErrEmpty = errors.New("content: file empty")

// Source reads one text file from storage.
type Source struct {
	fs   hal.Storage
	name string
}

func NewSource(fs hal.Storage, name string) *Source {
	if name == "" {
		name = DefaultName
	}
	return &Source{fs: fs, name: name}
}

func (s *Source) Name() string { return s.name }

// Text returns the whole file. Missing files wrap hal.ErrNotFound; files
// with nothing but whitespace return ErrEmpty.
func (s *Source) Text() (string, error) {
	if s.fs == nil {
		return "", fmt.Errorf("content: %s: %w", s.name, hal.ErrNotImplemented)
	}
	b, err := s.fs.ReadFile(s.name)
	if err != nil {
		return "", fmt.Errorf("content: %s: %w", s.name, err)
	}
	text := string(b)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}
	return text, nil
}
