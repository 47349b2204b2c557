// Package source defines the RecordSource contract the reporting core
// consumes, a database/sql adapter implementing it, and the decoding
// boundary that turns raw procedure payloads into typed structures.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/finboard/finboard/pkg/models/domain"
)

// FetchOptions narrows a Fetch call. All fields are optional.
type FetchOptions struct {
	Filter domain.FilterSpec
	Range  *domain.DateRange
	Sort   *domain.SortSpec
	Page   *domain.Page
}

// RecordSource supplies raw record collections and server-computed
// aggregates. Implementations never aggregate beyond limit/offset;
// derivation happens in the caller.
type RecordSource interface {
	Fetch(ctx context.Context, entity string, opts FetchOptions) ([]domain.Record, error)

	// CallProcedure runs a server-side procedure and returns its rows;
	// a scalar-result procedure comes back as a single record.
	CallProcedure(ctx context.Context, name string, params map[string]any) ([]domain.Record, error)
}

// FetchError marks a derivation as aborted because an underlying fetch
// failed, identifying which one. It is the only error shape the report
// assembler surfaces for source failures.
type FetchError struct {
	Entity string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %q: %v", e.Entity, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// WrapFetch tags err with the entity whose fetch failed. Errors that are
// already tagged pass through so the innermost fetch wins.
func WrapFetch(entity string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{Entity: entity, Err: err}
}
