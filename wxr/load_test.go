package wxr

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestLoadDocumentMissingFile(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "nope.xml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
	if loadErr.Path == "" {
		t.Error("expected offending path in load error")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected wrapped not-exist cause")
	}
}

func TestLoadDocumentMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xml")
	if err := os.WriteFile(path, []byte("<unclosed>"), 0600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	_, err := LoadDocument(path)
	if err == nil {
		t.Fatal("expected error for malformed XML")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
	if loadErr.Path != path {
		t.Errorf("expected path %q in load error, got %q", path, loadErr.Path)
	}
}

func TestLoadDocumentNoRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xml")
	if err := os.WriteFile(path, []byte(`<?xml version="1.0"?><!-- nothing here -->`), 0600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	_, err := LoadDocument(path)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError for rootless document, got %v", err)
	}
}

func TestLoadDocumentEncoding(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	path := filepath.Join(t.TempDir(), "legacy.xml")
	raw := `<?xml version="1.0" encoding="ISO-8859-1"?><rss><channel><title>caf` + "\xe9" + `</title></channel></rss>`
	if err := os.WriteFile(path, []byte(raw), 0600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	export, err := ParseFile(path, log)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	assertText(t, "decoded title", export.Blog.Title, "café")
}

func TestParseFileKeepsLoadError(t *testing.T) {
	log := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	_, err := ParseFile(filepath.Join(t.TempDir(), "gone.xml"), log)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError through ParseFile, got %T", err)
	}
	if !strings.Contains(err.Error(), "unable to load export") {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestLoadDocumentFrom(t *testing.T) {
	doc, err := LoadDocumentFrom(strings.NewReader(`<rss><channel><title>ok</title></channel></rss>`))
	if err != nil {
		t.Fatalf("LoadDocumentFrom failed: %v", err)
	}
	if doc.Root() == nil || doc.Root().Tag != "rss" {
		t.Fatal("expected rss root")
	}

	_, err = LoadDocumentFrom(strings.NewReader("<unclosed>"))
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
	if loadErr.Path != "" {
		t.Errorf("reader load errors carry no path, got %q", loadErr.Path)
	}
}
