package ports

import (
	"context"

	"github.com/atvirokodosprendimai/travelapi/internal/core/domain"
)

// DocumentGateway persists raw documents in named collections. It never
// validates what it is given.
type DocumentGateway interface {
	CreateDocument(ctx context.Context, collection string, doc domain.Document) (string, error)
	GetDocuments(ctx context.Context, collection string, filter domain.Filter, limit int) ([]domain.Document, error)
	ListCollections(ctx context.Context, limit int) ([]string, error)
}

type StoreHealth interface {
	State() (domain.StoreState, error)
}
