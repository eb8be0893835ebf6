package main

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractedDoc is the text content of one input PDF.
type ExtractedDoc struct {
	Path     string
	Filename string
	Text     string
	Length   int
}

// ExtractText returns the full text of a PDF. Some NAS sync tools store PDFs
// zip-wrapped; those are unwrapped to a temp file first.
func ExtractText(path string) (string, error) {
	realPath, cleanup, err := unwrapZip(path)
	if err != nil {
		return "", err
	}
	defer cleanup()

	f, r, err := pdf.Open(realPath)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text %s: %w", path, err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("read text %s: %w", path, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// ExtractDoc extracts a PDF into an ExtractedDoc record.
func ExtractDoc(path string) (ExtractedDoc, error) {
	text, err := ExtractText(path)
	if err != nil {
		return ExtractedDoc{}, err
	}
	return ExtractedDoc{
		Path:     path,
		Filename: filepath.Base(path),
		Text:     text,
		Length:   len(text),
	}, nil
}

// unwrapZip returns the path to the real PDF. If path is a ZIP archive
// containing a PDF, the first PDF member is copied to a temp file; the
// returned cleanup removes it.
func unwrapZip(path string) (string, func(), error) {
	noop := func() {}

	zr, err := zip.OpenReader(path)
	if err != nil {
		// Not a zip; treat as a plain PDF.
		return path, noop, nil
	}
	defer zr.Close()

	for _, member := range zr.File {
		if !strings.HasSuffix(strings.ToLower(member.Name), ".pdf") {
			continue
		}
		src, err := member.Open()
		if err != nil {
			return "", noop, fmt.Errorf("open zip member %s: %w", member.Name, err)
		}
		defer src.Close()

		tmp, err := os.CreateTemp("", "siteweekly-*.pdf")
		if err != nil {
			return "", noop, err
		}
		if _, err := io.Copy(tmp, src); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return "", noop, fmt.Errorf("unwrap zip %s: %w", path, err)
		}
		tmp.Close()
		return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
	}
	return path, noop, nil
}
