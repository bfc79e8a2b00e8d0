package frame

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/intpack/codec"
	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/internal/options"
)

// EncodeParallel splits values into chunks of chunkSize and encodes each chunk
// into its own frame concurrently. The frames are concatenated in input order,
// so the result is byte-identical to encoding the chunks one after another
// with a single Encoder.
//
// Cancellation is observed before each chunk starts; a chunk already being
// encoded runs to completion.
//
// Parameters:
//   - ctx: Context for cancellation
//   - values: Values to encode
//   - chunkSize: Number of values per frame, must be positive
//   - opts: Encoder options applied to every chunk
//
// Returns:
//   - []byte: Concatenated frames
//   - error: Option validation errors, the first chunk error, or ctx.Err()
func EncodeParallel[T codec.Word](ctx context.Context, values []T, chunkSize int, opts ...Option) ([]byte, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d", errs.ErrInvalidArgument, chunkSize)
	}
	if err := options.Build(newConfig(), opts...); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chunks := (len(values) + chunkSize - 1) / chunkSize
	results := make([][]byte, chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			enc, err := NewEncoder[T](opts...)
			if err != nil {
				return err
			}

			lo := i * chunkSize
			hi := min(lo+chunkSize, len(values))
			if err := enc.WriteSlice(values[lo:hi]); err != nil {
				return err
			}

			out, err := enc.Finish()
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			results[i] = out

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]byte, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}

	return out, nil
}
