package wxr

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// LoadError reports an export that could not be read at all: the path is
// missing or unreadable, or the content is not well-formed XML. Use
// errors.As to detect it; Unwrap exposes the underlying cause.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unable to load export: %v", e.Err)
	}
	return fmt.Sprintf("unable to load export %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadDocument reads the WXR export file at path into an XML document
// tree. Every failure is reported as *LoadError.
func LoadDocument(path string) (*etree.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	doc, err := readDocument(file)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return doc, nil
}

// LoadDocumentFrom reads a WXR export from an open reader, typically an
// archive entry.
func LoadDocumentFrom(r io.Reader) (*etree.Document, error) {
	doc, err := readDocument(r)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return doc, nil
}

// readDocument parses strictly: encoding declarations are honored through
// the charset reader, structural errors are fatal.
func readDocument(r io.Reader) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		ValidateInput: false,
		Permissive:    false,
	}

	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to parse XML: %w", err)
	}
	if doc.Root() == nil {
		return nil, errors.New("document has no root element")
	}
	return doc, nil
}
