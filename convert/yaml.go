package convert

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"
)

// writeYAML stores the record tree as a YAML document with the same keys and
// nullability as the JSON output.
func writeYAML(ctx context.Context, e *Export, outputPath string, log *zap.Logger) (rerr error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer multierr.AppendInvoke(&rerr, multierr.Close(f))

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	defer multierr.AppendInvoke(&rerr, multierr.Close(enc))

	if err := enc.Encode(buildView(e.Record)); err != nil {
		return fmt.Errorf("unable to encode YAML: %w", err)
	}

	log.Debug("Generated YAML", zap.String("file", outputPath), zap.Int("posts", len(e.Record.Posts)))
	return nil
}
