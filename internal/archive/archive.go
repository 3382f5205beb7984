// Package archive handles .zip expansion of input documents and
// bundling of refit results into an output archive.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/alnah/go-docxrefit/internal/fileutil"
)

// Sentinel errors for archive operations.
var (
	ErrNotZip         = errors.New("not a valid zip archive")
	ErrEmptyZip       = errors.New("zip archive contains no .docx entries")
	ErrDuplicateEntry = errors.New("duplicate entry name in output archive")
)

// Entry is one document extracted from an input archive.
type Entry struct {
	Name string // base name of the entry, e.g. "report.docx"
	Data []byte
}

// maxEntrySize caps a single extracted entry at 256 MiB.
// Guards against zip bombs in untrusted input archives.
const maxEntrySize = 256 << 20

// ExtractDocx reads a zip archive and returns its .docx entries.
// Directory entries, hidden files and non-.docx entries are skipped;
// nested paths are flattened to their base name. Returns ErrEmptyZip
// when no .docx entry is present.
func ExtractDocx(data []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotZip, err)
	}

	var entries []Entry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := path.Base(f.Name)
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		if !fileutil.HasExt(name, ".docx") {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening zip entry %q: %w", f.Name, err)
		}
		content, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
		closeErr := rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading zip entry %q: %w", f.Name, err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("closing zip entry %q: %w", f.Name, closeErr)
		}
		if len(content) > maxEntrySize {
			return nil, fmt.Errorf("zip entry %q exceeds size limit", f.Name)
		}

		entries = append(entries, Entry{Name: name, Data: content})
	}

	if len(entries) == 0 {
		return nil, ErrEmptyZip
	}
	return entries, nil
}

// Writer bundles refit results into a zip archive. Successful documents
// are stored under their output name; failures become error marker
// entries so a batch result is always complete.
type Writer struct {
	buf  bytes.Buffer
	zw   *zip.Writer
	seen map[string]bool
}

// NewWriter returns an empty output archive writer.
func NewWriter() *Writer {
	w := &Writer{seen: make(map[string]bool)}
	w.zw = zip.NewWriter(&w.buf)
	return w
}

// AddDocument stores a refit result under name.
func (w *Writer) AddDocument(name string, data []byte) error {
	return w.add(name, data)
}

// AddErrorMarker stores a "<stem>__ERROR.txt" entry describing why a
// document could not be processed.
func (w *Writer) AddErrorMarker(sourceName string, cause error) error {
	name := fileutil.Stem(sourceName) + "__ERROR.txt"
	msg := fmt.Sprintf("Failed to process %s: %v\n", sourceName, cause)
	return w.add(name, []byte(msg))
}

func (w *Writer) add(name string, data []byte) error {
	if w.seen[name] {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, name)
	}
	w.seen[name] = true

	fw, err := w.zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating zip entry %q: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("writing zip entry %q: %w", name, err)
	}
	return nil
}

// Len reports how many entries have been added.
func (w *Writer) Len() int {
	return len(w.seen)
}

// Bytes finalizes the archive and returns its content.
// The writer must not be used after calling Bytes.
func (w *Writer) Bytes() ([]byte, error) {
	if err := w.zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing output archive: %w", err)
	}
	return w.buf.Bytes(), nil
}
