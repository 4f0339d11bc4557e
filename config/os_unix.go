//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// illegalNameRunes are runes which cannot appear in a file name on this
// platform.
var illegalNameRunes = string(os.PathSeparator) + string(os.PathListSeparator)

// CleanFileName drops runes not allowed in file names. Leading dots are
// trimmed too, a name built from a post title should never turn into a
// hidden file.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if strings.ContainsRune(illegalNameRunes, sym) {
			return -1
		}
		return sym
	}, in)
	out = strings.TrimLeft(out, ".")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
