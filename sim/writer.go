package sim

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"goCrashSim/state"
)

// BookWriter writes books as JSON lines, one book per line, optionally
// gzip-compressed.
type BookWriter struct {
	path string
	file *os.File
	gz   *gzip.Writer
	buf  *bufio.Writer
	enc  *json.Encoder
}

// NewBookWriter creates books_<mode>.jsonl (or .jsonl.gz) in dir.
func NewBookWriter(dir, betMode string, compress bool) (*BookWriter, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	name := "books_" + betMode + ".jsonl"
	if compress {
		name += ".gz"
	}
	path := filepath.Join(dir, name)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create books file: %w", err)
	}

	w := &BookWriter{path: path, file: file}

	var out io.Writer = file
	if compress {
		w.gz = gzip.NewWriter(file)
		out = w.gz
	}
	w.buf = bufio.NewWriter(out)
	w.enc = json.NewEncoder(w.buf)
	return w, nil
}

func (w *BookWriter) Path() string {
	return w.path
}

func (w *BookWriter) WriteBatch(_ context.Context, _ string, books []*state.Book) error {
	for _, book := range books {
		if err := w.enc.Encode(book); err != nil {
			return fmt.Errorf("failed to encode book %d: %w", book.ID, err)
		}
	}
	return nil
}

func (w *BookWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to flush books: %w", err)
	}
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			w.file.Close()
			return fmt.Errorf("failed to finish gzip stream: %w", err)
		}
	}
	return w.file.Close()
}

// LookupTableWriter writes lookUpTable_<mode>.csv with one id,weight,payout
// row per book. Payouts are in hundredths of the bet.
type LookupTableWriter struct {
	path string
	file *os.File
	csv  *csv.Writer
}

func NewLookupTableWriter(dir, betMode string) (*LookupTableWriter, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(dir, "lookUpTable_"+betMode+".csv")
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup table: %w", err)
	}

	return &LookupTableWriter{path: path, file: file, csv: csv.NewWriter(file)}, nil
}

func (w *LookupTableWriter) Path() string {
	return w.path
}

func (w *LookupTableWriter) WriteBatch(_ context.Context, _ string, books []*state.Book) error {
	for _, book := range books {
		payout := int64(math.Round(book.PayoutMultiplier * 100))
		record := []string{
			strconv.FormatInt(book.ID, 10),
			"1",
			strconv.FormatInt(payout, 10),
		}
		if err := w.csv.Write(record); err != nil {
			return fmt.Errorf("failed to write lookup row %d: %w", book.ID, err)
		}
	}
	return nil
}

func (w *LookupTableWriter) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to flush lookup table: %w", err)
	}
	return w.file.Close()
}
