//go:build !tinygo

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunImportsBookAndSavesPage(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(t.TempDir(), "in.txt")
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200)
	if err := os.WriteFile(book, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run(&out, dir, book, 2); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, err := os.ReadFile(filepath.Join(dir, "book.txt")); err != nil || string(got) != text {
		t.Fatalf("book.txt not imported: %v", err)
	}
	if !strings.Contains(out.String(), "reader at page 2") {
		t.Fatalf("output %q, want page 2", out.String())
	}

	out.Reset()
	if err := run(&out, dir, "", -1); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !strings.Contains(out.String(), "reader at page 2") {
		t.Fatalf("page not persisted: %q", out.String())
	}
}

func TestRunRejectsPageOutOfRange(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(book, []byte("short"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run(&out, dir, book, 5); err == nil {
		t.Fatalf("page 5 of a one-page book accepted")
	}
}

func TestRunEmptyDir(t *testing.T) {
	var out bytes.Buffer
	if err := run(&out, t.TempDir(), "", -1); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "0 pages, reader at page 0") {
		t.Fatalf("output %q", out.String())
	}
}
