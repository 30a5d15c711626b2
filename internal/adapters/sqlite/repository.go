package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm/clause"

	"github.com/atvirokodosprendimai/travelapi/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/travelapi/internal/core/domain"
)

const (
	DefaultDatabaseName = "default"
	maxDocuments        = 1000
)

var collectionPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

type documentModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	DocumentID   string    `gorm:"column:document_id;not null"`
	DatabaseName string    `gorm:"column:database_name;not null"`
	Collection   string    `gorm:"column:collection;not null"`
	Data         string    `gorm:"column:data;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
}

func (documentModel) TableName() string {
	return "documents"
}

// Repository stores documents of every collection in one table, namespaced
// by database name. It is agnostic to what the documents contain.
type Repository struct {
	conn     *Conn
	database string
	log      zerolog.Logger
}

func NewRepository(conn *Conn, database string, log zerolog.Logger) *Repository {
	if database == "" {
		database = DefaultDatabaseName
	}
	return &Repository{conn: conn, database: database, log: log}
}

func (r *Repository) CreateDocument(ctx context.Context, collection string, doc domain.Document) (string, error) {
	db, err := r.conn.DB()
	if err != nil {
		return "", err
	}
	if !collectionPattern.MatchString(collection) {
		return "", domain.NewStoreWriteError(fmt.Errorf("invalid collection name %q", collection))
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", domain.NewStoreWriteError(err)
	}

	model := documentModel{
		DocumentID:   uuid.NewString(),
		DatabaseName: r.database,
		Collection:   collection,
		Data:         string(data),
		CreatedAt:    time.Now().UTC(),
	}
	err = db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return "", domain.NewStoreWriteError(err)
	}
	return model.DocumentID, nil
}

// GetDocuments returns up to limit documents in insertion order. It returns
// an empty slice, not an error, when nothing matches.
func (r *Repository) GetDocuments(ctx context.Context, collection string, filter domain.Filter, limit int) ([]domain.Document, error) {
	db, err := r.conn.DB()
	if err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxDocuments {
		limit = maxDocuments
	}

	var models []documentModel
	err = db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		query := tx.Model(&documentModel{}).
			Where("database_name = ? AND collection = ?", r.database, collection)
		for _, field := range filter.Fields() {
			query = query.Where("json_extract(data, ?) = ?", "$."+field, filter[field])
		}
		return query.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).Limit(limit).Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("get documents: %w", err)
	}

	docs := make([]domain.Document, 0, len(models))
	for _, model := range models {
		var doc domain.Document
		if err := json.Unmarshal([]byte(model.Data), &doc); err != nil || doc == nil {
			r.log.Warn().Str("collection", collection).Str("document_id", model.DocumentID).Msg("skipping undecodable document")
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ListCollections returns the names of non-empty collections, sorted.
func (r *Repository) ListCollections(ctx context.Context, limit int) ([]string, error) {
	db, err := r.conn.DB()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = maxDocuments
	}

	names := make([]string, 0)
	err = db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Model(&documentModel{}).
			Where("database_name = ?", r.database).
			Distinct("collection").
			Order("collection ASC").
			Limit(limit).
			Pluck("collection", &names).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}
