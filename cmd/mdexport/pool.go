package main

import (
	"context"
	"fmt"

	mdexport "github.com/alnah/go-mdexport"
)

// Exporter renders one document in the requested format.
type Exporter interface {
	Export(ctx context.Context, format mdexport.Format, input mdexport.Input) ([]byte, error)
}

// Compile-time interface implementation check.
var _ Exporter = (*mdexport.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (Exporter, error)
	Release(Exporter)
	Size() int
	Close() error
}

// poolAdapter exposes *mdexport.ConverterPool as a Pool.
type poolAdapter struct {
	pool *mdexport.ConverterPool
}

var _ Pool = (*poolAdapter)(nil)

func newConverterPool(size int, opts ...mdexport.Option) Pool {
	return &poolAdapter{pool: mdexport.NewConverterPool(size, opts...)}
}

func (a *poolAdapter) Acquire() (Exporter, error) {
	conv, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release panics on an Exporter this pool did not hand out.
func (a *poolAdapter) Release(e Exporter) {
	conv, ok := e.(*mdexport.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", e))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int { return a.pool.Size() }

func (a *poolAdapter) Close() error { return a.pool.Close() }
