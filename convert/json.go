package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// writeJSON stores the record tree as indented UTF-8 JSON. HTML escaping is
// off, post content is web markup already and should stay readable.
func writeJSON(ctx context.Context, e *Export, outputPath string, log *zap.Logger) (rerr error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer multierr.AppendInvoke(&rerr, multierr.Close(f))

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(buildView(e.Record)); err != nil {
		return fmt.Errorf("unable to encode JSON: %w", err)
	}

	log.Debug("Generated JSON", zap.String("file", outputPath), zap.Int("posts", len(e.Record.Posts)))
	return nil
}
