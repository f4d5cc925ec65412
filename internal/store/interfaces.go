package store

import (
	"context"
	"iter"

	"knitting-catalog-service/internal/domain"
)

// DesignStorer is the read side of the design catalog.
//
// GetAll returns a finite, possibly empty sequence in no particular order.
// Every yielded Design is fully validated. When the backing store fails the
// sequence yields a single non-nil error and stops; no further designs
// follow it.
type DesignStorer interface {
	GetAll(ctx context.Context) iter.Seq2[domain.Design, error]
}
