package usecase

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/travelapi/internal/core/domain"
	"github.com/atvirokodosprendimai/travelapi/internal/core/ports"
	"github.com/atvirokodosprendimai/travelapi/internal/core/schema"
)

const (
	DefaultDestinationLimit = 12
	DefaultItineraryLimit   = 20
	MaxLimit                = 1000
)

// Collection is a typed view over one collection of the raw gateway.
type Collection[T any] struct {
	name    string
	gw      ports.DocumentGateway
	catalog *schema.Catalog
	project func(domain.Document) T
}

// NewCollection binds s's collection to T. When catalog is non-nil every
// serialized document is checked against the entity's JSON Schema before it
// is written.
func NewCollection[T any](gw ports.DocumentGateway, s *schema.Schema, catalog *schema.Catalog, project func(domain.Document) T) *Collection[T] {
	return &Collection[T]{name: s.Collection(), gw: gw, catalog: catalog, project: project}
}

func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) Create(ctx context.Context, v T) (string, error) {
	doc, err := domain.ToDocument(v)
	if err != nil {
		return "", fmt.Errorf("serialize %s: %w", c.name, err)
	}
	if c.catalog != nil {
		if err := c.catalog.Conforms(c.name, map[string]any(doc)); err != nil {
			return "", fmt.Errorf("canonical %s: %w", c.name, err)
		}
	}
	return c.gw.CreateDocument(ctx, c.name, doc)
}

func (c *Collection[T]) Find(ctx context.Context, filter domain.Filter, limit int) ([]T, error) {
	docs, err := c.gw.GetDocuments(ctx, c.name, filter, limit)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		out = append(out, c.project(doc))
	}
	return out, nil
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
