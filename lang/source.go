package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"

	"github.com/ardnew/sdfc/log"
)

// ReadSource reads the complete source text from r.
func ReadSource(ctx context.Context, r io.Reader, logger log.Logger) (string, error) {
	// Wrap reader with async read-ahead so large inputs and pipes are
	// prefetched while earlier chunks are copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadSource.Wrap(err).
			With(slog.String("source", "reader"))
	}

	logger.TraceContext(
		ctx,
		"read source",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return string(data), nil
}
