// Package sqlite implements the store port on a single SQLite table, backed
// by GORM with the pure-Go driver. Documents are serialized to JSON and keyed
// by (collection path, key), which reproduces the remote store's model:
// collection reads return key→document maps and queries support one equality
// predicate, evaluated in application code after loading the collection.
package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/adoptazulia/go-adoptions-backend/internal/store"
)

// Record is one stored document. Doc holds the JSON-serialized body.
type Record struct {
	Collection string `gorm:"type:TEXT NOT NULL;primaryKey;index:idx_collection"`
	Key        string `gorm:"type:TEXT NOT NULL;primaryKey"`
	Doc        string `gorm:"type:TEXT NOT NULL"`
	UpdatedAt  time.Time
}

// TableName implements the GORM tabler interface.
func (Record) TableName() string { return "records" }

// Store adapts a GORM SQLite handle to the store port.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the SQLite database at path, applies PRAGMAs,
// migrates the records table, and returns the adapter. Tracing of store
// queries is wired through the GORM OpenTelemetry plugin.
func Open(path string) (*Store, error) {
	// Fail early if the parent directory does not exist (clearer than the
	// driver's "out of memory (14)").
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA busy_timeout=5000;")

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing GORM handle (tests).
func NewWithDB(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func splitPath(path string) (collection, key string) {
	path = strings.Trim(path, "/")
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// Get returns the document at path, or store.ErrNotFound.
func (s *Store) Get(ctx context.Context, path string) (map[string]any, error) {
	collection, key := splitPath(path)
	var rec Record
	err := s.db.WithContext(ctx).
		Where("collection = ? AND key = ?", collection, key).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return decodeDoc(rec.Doc)
}

// GetCollection returns every document under path as a key→document map.
func (s *Store) GetCollection(ctx context.Context, path string) (map[string]map[string]any, error) {
	var recs []Record
	err := s.db.WithContext(ctx).
		Where("collection = ?", strings.Trim(path, "/")).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]any, len(recs))
	for _, rec := range recs {
		doc, err := decodeDoc(rec.Doc)
		if err != nil {
			return nil, err
		}
		out[rec.Key] = doc
	}
	return out, nil
}

// Set writes the document at path, replacing any existing value.
func (s *Store) Set(ctx context.Context, path string, doc map[string]any) error {
	collection, key := splitPath(path)
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	rec := Record{Collection: collection, Key: key, Doc: string(body)}
	return s.db.WithContext(ctx).Save(&rec).Error
}

// Update merges fields into the document at path, creating it when absent.
// The read-modify-write runs inside a transaction so concurrent merges on the
// same document do not lose fields.
func (s *Store) Update(ctx context.Context, path string, fields map[string]any) error {
	collection, key := splitPath(path)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec Record
		err := tx.Where("collection = ? AND key = ?", collection, key).First(&rec).Error
		doc := map[string]any{}
		switch {
		case err == nil:
			if doc, err = decodeDoc(rec.Doc); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// create from fields
		default:
			return err
		}
		for k, v := range fields {
			doc[k] = v
		}
		body, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		rec = Record{Collection: collection, Key: key, Doc: string(body)}
		return tx.Save(&rec).Error
	})
}

// Remove deletes the document at path; removing a missing path is a no-op.
func (s *Store) Remove(ctx context.Context, path string) error {
	collection, key := splitPath(path)
	return s.db.WithContext(ctx).
		Where("collection = ? AND key = ?", collection, key).
		Delete(&Record{}).Error
}

// Push appends doc under path with a generated key and returns the key.
func (s *Store) Push(ctx context.Context, path string, doc map[string]any) (string, error) {
	key := uuid.NewString()
	if err := s.Set(ctx, strings.Trim(path, "/")+"/"+key, doc); err != nil {
		return "", err
	}
	return key, nil
}

// QueryEqual returns the documents under path whose child field equals value.
// The store has no secondary indexes on document fields, so the predicate is
// applied after loading the collection.
func (s *Store) QueryEqual(ctx context.Context, path, child string, value any) (map[string]map[string]any, error) {
	all, err := s.GetCollection(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]any)
	for k, doc := range all {
		if store.EqualValue(doc[child], value) {
			out[k] = doc
		}
	}
	return out, nil
}

func decodeDoc(body string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
