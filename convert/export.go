package convert

import (
	"context"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"sort"

	"github.com/beevik/etree"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"wpparser/config"
	"wpparser/state"
	"wpparser/wxr"
)

// Export bundles the raw WXR XML document and the structured record tree
// parsed from it, together with lookup indexes built once per source file.
type Export struct {
	SrcName      string
	Doc          *etree.Document
	OutputFormat config.OutputFmt

	Record *wxr.Document

	PostsByType    map[string][]*wxr.Post
	PostsByCreator map[string][]*wxr.Post
	MetaKeys       map[string]int
}

// Prepare reads, parses and indexes a single WXR export for conversion.
func Prepare(ctx context.Context, r io.Reader, srcName string, outputFormat config.OutputFmt, log *zap.Logger) (*Export, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	doc, err := wxr.LoadDocumentFrom(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read WXR: %w", err)
	}

	record, err := wxr.ParseDocument(doc, log)
	if err != nil {
		return nil, fmt.Errorf("unable to parse WXR: %w", err)
	}

	e := &Export{
		SrcName:      srcName,
		Doc:          doc,
		OutputFormat: outputFormat,
		Record:       record,
	}
	e.buildIndexes()

	// Save source and parsed tree for debugging
	if env.Rpt != nil {
		name := filepath.ToSlash(srcName)
		data, err := doc.WriteToBytes()
		if err != nil {
			return nil, fmt.Errorf("unable to write input doc for debugging: %w", err)
		}
		env.Rpt.StoreData(name, data)
		env.Rpt.StoreData(name+"_parsed", []byte(e.String()))
	}

	return e, nil
}

func (e *Export) buildIndexes() {
	e.PostsByType = make(map[string][]*wxr.Post)
	e.PostsByCreator = make(map[string][]*wxr.Post)
	e.MetaKeys = make(map[string]int)

	for i := range e.Record.Posts {
		post := &e.Record.Posts[i]
		if post.PostType != nil {
			e.PostsByType[*post.PostType] = append(e.PostsByType[*post.PostType], post)
		}
		if post.Creator != nil {
			e.PostsByCreator[*post.Creator] = append(e.PostsByCreator[*post.Creator], post)
		}
		for _, m := range post.Meta {
			e.MetaKeys[m.Key]++
		}
	}
}

// Creators returns distinct post creators in natural order.
func (e *Export) Creators() []string {
	keys := slices.Collect(maps.Keys(e.PostsByCreator))
	sort.Sort(natural.StringSlice(keys))
	return keys
}
