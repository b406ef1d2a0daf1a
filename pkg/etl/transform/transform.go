// package transform
//
// per record transformation. The current policy is identity: every row
// leaves the way it came in
package transform

import (
	"errors"
	"fmt"

	"github.com/baderkha/trip-etl/pkg/etl/etlerr"
	"github.com/baderkha/trip-etl/pkg/etl/record"
)

// Transformer : maps one record to exactly one record
type Transformer interface {
	TransformRow(r record.Record) (record.Record, error)
	// TransformBatch : all or nothing, order and length are preserved
	TransformBatch(rows []record.Record) ([]record.Record, error)
}

// RowFunc : lets a plain function act as a Transformer
type RowFunc func(r record.Record) (record.Record, error)

func (f RowFunc) TransformRow(r record.Record) (record.Record, error) {
	return guardRow(f, r)
}

func (f RowFunc) TransformBatch(rows []record.Record) ([]record.Record, error) {
	return mapBatch(rows, f.TransformRow)
}

// guardRow : runs fn turning both returned errors and panics into a
// TransformationError
func guardRow(fn func(record.Record) (record.Record, error), r record.Record) (out record.Record, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, err = record.Record{}, &etlerr.TransformationError{Index: -1, Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	out, err = fn(r)
	if err == nil {
		return out, nil
	}
	var te *etlerr.TransformationError
	if errors.As(err, &te) {
		return record.Record{}, err
	}
	return record.Record{}, &etlerr.TransformationError{Index: -1, Err: err}
}

func mapBatch(rows []record.Record, fn func(record.Record) (record.Record, error)) ([]record.Record, error) {
	out := make([]record.Record, 0, len(rows))
	for i, row := range rows {
		tr, err := fn(row)
		if err != nil {
			cause := err
			var te *etlerr.TransformationError
			if errors.As(err, &te) {
				cause = te.Err
			}
			return nil, &etlerr.TransformationError{Index: i, Err: cause}
		}
		out = append(out, tr)
	}
	return out, nil
}
