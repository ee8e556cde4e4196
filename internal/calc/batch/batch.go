package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"Hover/internal/calc/hover"
)

const (
	MaxItems    = 1000
	parallelism = 8
)

var ErrEmpty = errors.New("no items")

type HoverBatchInput struct {
	Items []hover.Input `json:"items"`
}

type HoverBatchResult struct {
	Results []hover.Result `json:"results"`
}

// CalculateHover evaluates every item against calc. Results keep the order of
// the input items; the first failing item aborts the batch.
func CalculateHover(ctx context.Context, calc *hover.Calculator, in HoverBatchInput) (HoverBatchResult, error) {
	if len(in.Items) == 0 {
		return HoverBatchResult{}, ErrEmpty
	}
	if len(in.Items) > MaxItems {
		return HoverBatchResult{}, fmt.Errorf("%d items exceeds the limit of %d", len(in.Items), MaxItems)
	}

	out := HoverBatchResult{Results: make([]hover.Result, len(in.Items))}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(parallelism)
	for i, item := range in.Items {
		i, item := i, item
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := calc.Calculate(item)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			out.Results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return HoverBatchResult{}, err
	}

	return out, nil
}
