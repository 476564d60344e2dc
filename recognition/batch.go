package recognition

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Buffer is one input of a batch
type Buffer struct {
	Name       string
	Samples    []float64
	SampleRate int
}

// AnalyzeBatch analyzes independent buffers in parallel, at most
// Config().Concurrency at a time (0 means unbounded). Results keep the input
// order. The first failure cancels the remaining work and is returned with
// the buffer name.
func (r *Recognizer) AnalyzeBatch(ctx context.Context, buffers []Buffer) ([]*Analysis, error) {
	results := make([]*Analysis, len(buffers))

	g, ctx := errgroup.WithContext(ctx)
	if r.config.Concurrency > 0 {
		g.SetLimit(r.config.Concurrency)
	}

	for i, buf := range buffers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			analysis, err := r.Analyze(buf.Samples, buf.SampleRate)
			if err != nil {
				return fmt.Errorf("analyze %s: %w", bufferName(buf, i), err)
			}
			results[i] = analysis
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func bufferName(buf Buffer, i int) string {
	if buf.Name != "" {
		return buf.Name
	}
	return fmt.Sprintf("buffer #%d", i)
}
