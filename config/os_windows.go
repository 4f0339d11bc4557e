//go:build windows

package config

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
	"golang.org/x/term"
)

// illegalNameRunes are runes which cannot appear in a file name on this
// platform, in addition to control runes.
var illegalNameRunes = `<>":/\|?*` + string(os.PathSeparator) + string(os.PathListSeparator)

// CleanFileName drops runes not allowed in file names. Post titles come from
// arbitrary XML text, so control runes are dropped as well and trailing dots
// and spaces are trimmed, Windows does not accept them at the end of a name.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if sym < 0x20 || strings.ContainsRune(illegalNameRunes, sym) {
			return -1
		}
		return sym
	}, in)
	out = strings.TrimRight(out, ". ")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}

// EnableColorOutput checks if colorized output is possible and enables
// VT100 sequence processing in Windows console.
func EnableColorOutput(stream *os.File) bool {
	if !windowsSupportsVT() {
		return false
	}
	if !term.IsTerminal(int(stream.Fd())) {
		return false
	}

	var mode uint32
	if err := windows.GetConsoleMode(windows.Handle(stream.Fd()), &mode); err != nil {
		return false
	}
	mode |= windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING
	return windows.SetConsoleMode(windows.Handle(stream.Fd()), mode) == nil
}

// windowsSupportsVT reports whether this Windows version handles VT100
// sequences, everything starting with Windows 10 does.
func windowsSupportsVT() bool {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer k.Close()

	v, _, err := k.GetIntegerValue("CurrentMajorVersionNumber")
	if err != nil {
		return false
	}
	return v >= 10
}
