package convert

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// srcEncoding is the UTF family detected from a byte order mark. WordPress
// exports are normally UTF-8 without BOM, but files passed through Windows
// tooling show up in the wild with all of these.
type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

// sniffLen bytes from the head of a file are enough for both BOM and content
// signature detection.
const sniffLen = 512

var wxrType = filetype.NewType("wxr", "application/rss+xml")

func init() {
	filetype.AddMatcher(wxrType, wxrMatcher)
}

// wxrMatcher recognizes WordPress eXtended RSS: an rss document mentioning
// the wordpress.org/export namespace in its head.
func wxrMatcher(buf []byte) bool {
	if isUTF8BOM3(buf) {
		buf = buf[3:]
	}
	return bytes.Contains(buf, []byte("<rss")) && bytes.Contains(buf, []byte("wordpress.org/export"))
}

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

// detectUTF checks buffer head for known byte order marks. UTF-32 LE shares
// its first two bytes with UTF-16 LE so the longer marks are checked first.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	case isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case isUTF8BOM3(buf):
		return encUTF8
	case isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	default:
		return encUnknown
	}
}

// selectReader wraps the reader with a decoder matching the detected
// encoding, BOM included, so downstream XML parsing always sees clean UTF-8.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUnknown:
		return r
	case encUTF8:
		return unicode.UTF8BOM.NewDecoder().Reader(r)
	case encUTF16BigEndian:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder().Reader(r)
	case encUTF16LittleEndian:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Reader(r)
	case encUTF32BigEndian:
		return utf32.UTF32(utf32.BigEndian, utf32.UseBOM).NewDecoder().Reader(r)
	case encUTF32LittleEndian:
		return utf32.UTF32(utf32.LittleEndian, utf32.UseBOM).NewDecoder().Reader(r)
	default:
		// this should never happen
		panic("unsupported source encoding requested")
	}
}

// isArchiveFile reports whether path looks like a ZIP archive, checking
// content magic rather than trusting the extension alone.
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head, err := sniff(f)
	if err != nil {
		return false, err
	}
	return filetype.Is(head, "zip"), nil
}

// isExportFile reports whether path is a WXR export and what UTF encoding
// its content carries.
func isExportFile(path string) (bool, srcEncoding, error) {
	if !hasExportExt(path) {
		return false, encUnknown, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, encUnknown, err
	}
	defer f.Close()

	return isExportData(f)
}

// isExportInArchive is isExportFile for a single entry of an opened archive.
func isExportInArchive(f *zip.File) (bool, srcEncoding, error) {
	if !hasExportExt(f.FileHeader.Name) {
		return false, encUnknown, nil
	}

	r, err := f.Open()
	if err != nil {
		return false, encUnknown, err
	}
	defer r.Close()

	return isExportData(r)
}

func hasExportExt(path string) bool {
	ext := filepath.Ext(path)
	return strings.EqualFold(ext, ".xml") || strings.EqualFold(ext, ".wxr")
}

// isExportData sniffs the reader head, detects UTF encoding from a possible
// BOM and matches decoded bytes against the wxr signature. Decoding first
// keeps the signature check working for UTF-16/32 sources.
func isExportData(r io.Reader) (bool, srcEncoding, error) {
	head, err := sniff(r)
	if err != nil {
		return false, encUnknown, err
	}

	enc := detectUTF(head)

	decoded := head
	if enc != encUnknown {
		if decoded, err = io.ReadAll(selectReader(bytes.NewReader(head), enc)); err != nil {
			return false, enc, err
		}
	}
	return filetype.IsType(decoded, wxrType), enc, nil
}

func sniff(r io.Reader) ([]byte, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return head[:n], nil
}
