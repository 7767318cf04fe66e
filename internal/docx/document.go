// Package docx edits Office Open XML word documents at the paragraph
// level: text substitution that preserves run formatting, and inline
// image insertion. Documents are processed as ZIP archives whose XML
// parts are rewritten in place.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/gondimadv/arbitral/internal/common"
)

const documentPart = "word/document.xml"

var editablePartRe = regexp.MustCompile(`^word/(document|header\d*|footer\d*)\.xml$`)

type entry struct {
	header zip.FileHeader
	data   []byte
}

// Document is a fully in-memory DOCX archive. Parts holding visible text
// are parsed into paragraphs; everything else is carried through verbatim
// on save.
type Document struct {
	entries []*entry
	byName  map[string]*entry
	parts   map[string]*Part
	images  int
}

// Open reads a DOCX file from disk.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapError(err, "read document")
	}
	return OpenBytes(data)
}

// OpenBytes reads a DOCX archive from memory.
func OpenBytes(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open document archive: %w", err)
	}

	d := &Document{
		byName: make(map[string]*entry),
		parts:  make(map[string]*Part),
	}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive entry %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read archive entry %s: %w", f.Name, err)
		}
		e := &entry{header: f.FileHeader, data: content}
		d.entries = append(d.entries, e)
		d.byName[f.Name] = e
	}

	if _, ok := d.byName[documentPart]; !ok {
		return nil, fmt.Errorf("archive has no %s: %w", documentPart, common.ErrInvalidInput)
	}
	for _, e := range d.entries {
		if editablePartRe.MatchString(e.header.Name) {
			d.parts[e.header.Name] = parsePart(e.header.Name, string(e.data))
		}
	}
	return d, nil
}

// Body returns the main document part.
func (d *Document) Body() *Part {
	return d.parts[documentPart]
}

// Parts returns every editable part, main document first, then headers
// and footers in name order.
func (d *Document) Parts() []*Part {
	out := []*Part{d.parts[documentPart]}
	var names []string
	for name := range d.parts {
		if name != documentPart {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, d.parts[name])
	}
	return out
}

// SaveTo serializes the archive, writing modified parts back and copying
// untouched entries with their original headers.
func (d *Document) SaveTo(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, e := range d.entries {
		content := e.data
		if part, ok := d.parts[e.header.Name]; ok {
			content = []byte(part.render())
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.header.Name,
			Method:   e.header.Method,
			Modified: e.header.Modified,
		})
		if err != nil {
			return fmt.Errorf("write archive entry %s: %w", e.header.Name, err)
		}
		if _, err := fw.Write(content); err != nil {
			return fmt.Errorf("write archive entry %s: %w", e.header.Name, err)
		}
	}
	return zw.Close()
}

// Save writes the archive to a new file.
func (d *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return common.WrapError(err, "create output document")
	}
	defer f.Close()
	if err := d.SaveTo(f); err != nil {
		return err
	}
	return f.Close()
}

// setEntry replaces the content of an existing archive entry or appends
// a new one.
func (d *Document) setEntry(name string, data []byte) {
	if e, ok := d.byName[name]; ok {
		e.data = data
		return
	}
	e := &entry{
		header: zip.FileHeader{Name: name, Method: zip.Deflate},
		data:   data,
	}
	d.entries = append(d.entries, e)
	d.byName[name] = e
}

func (d *Document) entryData(name string) ([]byte, bool) {
	e, ok := d.byName[name]
	if !ok {
		return nil, false
	}
	return e.data, true
}

// Text returns the plain text of the main document part, paragraphs
// separated by newlines.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, p := range d.Body().Paragraphs() {
		sb.WriteString(p.Text())
		sb.WriteByte('\n')
	}
	return sb.String()
}
