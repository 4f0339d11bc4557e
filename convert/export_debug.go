package convert

import (
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"wpparser/utils/debug"
)

// String renders a readable dump of the whole Export starting with the
// parsed record tree. It exists solely for manual inspection during
// debugging.
func (e *Export) String() string {
	if e == nil {
		return "<nil Export>"
	}

	out := e.Record.String()

	if len(e.PostsByType) > 0 {
		tw := debug.NewTreeWriter()
		tw.Line(0, "Posts by type: %d", len(e.PostsByType))
		keys := slices.Collect(maps.Keys(e.PostsByType))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			tw.Line(1, "Type[%q] posts[%d]", k, len(e.PostsByType[k]))
		}
		out += "\n" + tw.String()
	}

	if len(e.PostsByCreator) > 0 {
		tw := debug.NewTreeWriter()
		tw.Line(0, "Posts by creator: %d", len(e.PostsByCreator))
		keys := slices.Collect(maps.Keys(e.PostsByCreator))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			tw.Line(1, "Creator[%q] posts[%d]", k, len(e.PostsByCreator[k]))
		}
		out += "\n" + tw.String()
	}

	if len(e.MetaKeys) > 0 {
		tw := debug.NewTreeWriter()
		tw.Line(0, "Postmeta keys: %d", len(e.MetaKeys))
		keys := slices.Collect(maps.Keys(e.MetaKeys))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			tw.Line(1, "Key[%q] used[%d]", k, e.MetaKeys[k])
		}
		out += "\n" + tw.String()
	}

	return out
}
