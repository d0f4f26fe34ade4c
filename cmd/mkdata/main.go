//go:build !tinygo

// mkdata prepares the storage directory of a host dashboard: it imports the
// reader text and reads or sets the saved reader page.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"inkdash/dash/content"
	"inkdash/dash/nvs"
	"inkdash/dash/pager"
	"inkdash/dash/render"
	"inkdash/hal"
	"inkdash/internal/config"
)

func main() {
	var dir string
	var book string
	var page int
	flag.StringVar(&dir, "dir", config.Default().StorageDir, "Storage directory of the dashboard.")
	flag.StringVar(&book, "book", "", "Text file to import as "+content.DefaultName+".")
	flag.IntVar(&page, "page", -1, "Reader page to save (-1 = leave as is).")
	flag.Parse()

	if dir == "" {
		fmt.Fprintln(os.Stderr, "error: -dir is required")
		os.Exit(2)
	}

	if err := run(os.Stdout, dir, book, page); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(out io.Writer, dir, book string, page int) error {
	fs, err := hal.OpenDir(dir)
	if err != nil {
		return err
	}

	if book != "" {
		data, err := os.ReadFile(book)
		if err != nil {
			return fmt.Errorf("read %q: %w", book, err)
		}
		if err := fs.WriteFile(content.DefaultName, data); err != nil {
			return err
		}
	}

	pages := 0
	text, err := content.NewSource(fs, content.DefaultName).Text()
	switch {
	case err == nil:
		metrics := pager.NewFontMetrics(render.DefaultFonts().Body)
		pages = len(pager.DefaultLayout.Paginate(text, metrics))
	case errors.Is(err, hal.ErrNotFound), errors.Is(err, content.ErrEmpty):
	default:
		return err
	}

	idx := nvs.NewPageIndex(nvs.New(fs))
	if page >= 0 {
		if pages > 0 && page >= pages {
			return fmt.Errorf("page %d out of range (%d pages)", page, pages)
		}
		if err := idx.Save(page); err != nil {
			return err
		}
	}
	cur, err := idx.Load()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %d pages, reader at page %d\n", dir, pages, cur)
	return nil
}
