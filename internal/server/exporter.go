package server

import (
	"context"

	mdexport "github.com/alnah/go-mdexport"
)

// Exporter renders one export request. *mdexport.Converter satisfies it.
type Exporter interface {
	DOCX(ctx context.Context, input mdexport.Input) ([]byte, error)
	PDF(ctx context.Context, input mdexport.Input) ([]byte, error)
	Preview(ctx context.Context, input mdexport.Input) ([]byte, error)
}

// PoolExporter runs each request on a converter borrowed from a pool, so PDF
// exports from concurrent requests use separate browsers.
type PoolExporter struct {
	pool *mdexport.ConverterPool
}

// NewPoolExporter wraps pool.
func NewPoolExporter(pool *mdexport.ConverterPool) *PoolExporter {
	return &PoolExporter{pool: pool}
}

func (e *PoolExporter) DOCX(ctx context.Context, input mdexport.Input) ([]byte, error) {
	return e.with(func(c *mdexport.Converter) ([]byte, error) { return c.DOCX(ctx, input) })
}

func (e *PoolExporter) PDF(ctx context.Context, input mdexport.Input) ([]byte, error) {
	return e.with(func(c *mdexport.Converter) ([]byte, error) { return c.PDF(ctx, input) })
}

func (e *PoolExporter) Preview(ctx context.Context, input mdexport.Input) ([]byte, error) {
	return e.with(func(c *mdexport.Converter) ([]byte, error) { return c.Preview(ctx, input) })
}

func (e *PoolExporter) with(fn func(*mdexport.Converter) ([]byte, error)) ([]byte, error) {
	conv, err := e.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer e.pool.Release(conv)
	return fn(conv)
}

var (
	_ Exporter = (*PoolExporter)(nil)
	_ Exporter = (*mdexport.Converter)(nil)
)
