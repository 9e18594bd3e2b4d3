package listing

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Placeholder values for enrichment fields. A missing related record is
// expected data; a failed lookup is not, and gets its own marker so real
// backend errors are not hidden behind the not-found label.
const (
	PlaceholderUnknown     = "Unknown"
	PlaceholderNotProvided = "Not provided"
	PlaceholderUnavailable = "Unavailable"
)

const defaultMaxConcurrent = 8

// Lookup fills one related field on a row. Fetch must return
// gorm.ErrRecordNotFound for an absent zero-or-one relation.
type Lookup[T any] struct {
	Name         string
	Fetch        func(ctx context.Context, row *T) error
	ApplyMissing func(row *T)
	ApplyFailed  func(row *T)
}

// Enriched pairs a row with a flag set when any of its lookups hit a
// genuine backend error (as opposed to a clean not-found).
type Enriched[T any] struct {
	Row      *T   `json:"row"`
	Degraded bool `json:"degraded"`
}

// Enrich runs every lookup for every row concurrently and reassembles the
// results in the original row order. No lookup failure drops a row or
// aborts the batch: not-found becomes the lookup's missing placeholder,
// an error becomes its failed placeholder and marks the row degraded.
func Enrich[T any](ctx context.Context, rows []*T, lookups []Lookup[T]) []Enriched[T] {
	out := make([]Enriched[T], len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultMaxConcurrent)

	for i, row := range rows {
		g.Go(func() error {
			out[i] = enrichRow(ctx, row, lookups)
			return nil
		})
	}
	g.Wait()

	return out
}

func enrichRow[T any](ctx context.Context, row *T, lookups []Lookup[T]) Enriched[T] {
	// The lookups of one row run concurrently too; each result lands in its
	// own slot, so there are no concurrent writes to the row itself until
	// the placeholders are applied sequentially below.
	results := make([]error, len(lookups))

	g, ctx := errgroup.WithContext(ctx)
	for i, l := range lookups {
		g.Go(func() error {
			results[i] = l.Fetch(ctx, row)
			return nil
		})
	}
	g.Wait()

	enriched := Enriched[T]{Row: row}
	for i, err := range results {
		if err == nil {
			continue
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if lookups[i].ApplyMissing != nil {
				lookups[i].ApplyMissing(row)
			}
			continue
		}
		log.Printf("🔥 Enrichment lookup %q failed: %v", lookups[i].Name, err)
		if lookups[i].ApplyFailed != nil {
			lookups[i].ApplyFailed(row)
		}
		enriched.Degraded = true
	}

	return enriched
}

// Rows strips the degradation wrappers when only the rows are needed.
func Rows[T any](enriched []Enriched[T]) []*T {
	rows := make([]*T, len(enriched))
	for i, e := range enriched {
		rows[i] = e.Row
	}
	return rows
}
