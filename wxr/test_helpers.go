package wxr

import (
	"os"
	"testing"

	"github.com/beevik/etree"
)

const sampleWXR = "../testdata/_Test.xml"

func loadSampleDocument(t *testing.T) *etree.Document {
	t.Helper()

	file, err := os.Open(sampleWXR)
	if err != nil {
		t.Fatalf("open sample file: %v", err)
	}
	t.Cleanup(func() { _ = file.Close() })

	doc, err := readDocument(file)
	if err != nil {
		t.Fatalf("parse sample file: %v", err)
	}
	return doc
}
