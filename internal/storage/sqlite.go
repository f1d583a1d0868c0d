// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/seiri/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		filename TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		content TEXT NOT NULL,
		metadata TEXT,
		facts TEXT,
		source_url TEXT,
		retention REAL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category);

	CREATE TABLE IF NOT EXISTS relationships (
		filename TEXT NOT NULL,
		related_doc TEXT NOT NULL,
		kind TEXT NOT NULL,
		strength INTEGER NOT NULL,
		position INTEGER NOT NULL,
		FOREIGN KEY (filename) REFERENCES documents(filename) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_relationships_filename ON relationships(filename);

	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		files_found INTEGER NOT NULL,
		processed INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		input_chars INTEGER NOT NULL,
		output_chars INTEGER NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// ReplaceDocuments swaps the stored corpus for docs in one transaction.
// Each batch run is authoritative for the whole corpus, so the old rows go.
func (s *SQLiteStorage) ReplaceDocuments(ctx context.Context, docs []*models.ProcessedDocument) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (filename, category, content, metadata, facts, source_url, retention, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, doc := range docs {
		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		factsJSON, err := json.Marshal(doc.Facts)
		if err != nil {
			return fmt.Errorf("failed to marshal facts: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			doc.Filename, string(doc.Category), doc.StructuredContent,
			string(metadataJSON), string(factsJSON), doc.SourceURL, doc.RetentionRatio, now,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetDocument returns a document by filename.
func (s *SQLiteStorage) GetDocument(ctx context.Context, filename string) (*models.ProcessedDocument, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT filename, category, content, metadata, facts, source_url, retention
		 FROM documents WHERE filename = ?`, filename,
	)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document not found: %s", filename)
	}
	return doc, err
}

// ListDocuments returns documents ordered by filename, optionally filtered by
// category. An empty category matches everything.
func (s *SQLiteStorage) ListDocuments(ctx context.Context, category string, offset, limit int) ([]*models.ProcessedDocument, error) {
	query := `SELECT filename, category, content, metadata, facts, source_url, retention
	          FROM documents`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY filename LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.ProcessedDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (*models.ProcessedDocument, error) {
	var doc models.ProcessedDocument
	var category, metadataJSON, factsJSON string
	if err := row.Scan(&doc.Filename, &category, &doc.StructuredContent,
		&metadataJSON, &factsJSON, &doc.SourceURL, &doc.RetentionRatio); err != nil {
		return nil, err
	}
	doc.Category = models.Category(category)
	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	if factsJSON != "" {
		if err := json.Unmarshal([]byte(factsJSON), &doc.Facts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal facts: %w", err)
		}
	}
	return &doc, nil
}

// ReplaceRelationships swaps the stored relationship map in one transaction.
// Position preserves the strength-ordered ranking produced by the linker.
func (s *SQLiteStorage) ReplaceRelationships(ctx context.Context, rels map[string][]models.Relationship) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM relationships`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO relationships (filename, related_doc, kind, strength, position)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for filename, related := range rels {
		for i, rel := range related {
			if _, err := stmt.ExecContext(ctx, filename, rel.RelatedDoc, string(rel.Kind), rel.Strength, i); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// GetRelationships returns a document's related documents in ranked order.
func (s *SQLiteStorage) GetRelationships(ctx context.Context, filename string) ([]models.Relationship, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT related_doc, kind, strength FROM relationships
		 WHERE filename = ? ORDER BY position`, filename,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rels []models.Relationship
	for rows.Next() {
		var rel models.Relationship
		var kind string
		if err := rows.Scan(&rel.RelatedDoc, &kind, &rel.Strength); err != nil {
			return nil, err
		}
		rel.Kind = models.RelationshipKind(kind)
		rels = append(rels, rel)
	}
	return rels, rows.Err()
}

// SaveRunMetrics records one run's totals.
func (s *SQLiteStorage) SaveRunMetrics(ctx context.Context, m *models.RunMetrics) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, files_found, processed, failed, input_chars, output_chars, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.RunID, m.FilesFound, m.Processed, m.Failed,
		m.TotalInputChars, m.TotalOutputChars, m.StartedAt, m.FinishedAt,
	)
	return err
}

// LastRunMetrics returns the most recently finished run, or nil when no run
// has been recorded yet.
func (s *SQLiteStorage) LastRunMetrics(ctx context.Context) (*models.RunMetrics, error) {
	var m models.RunMetrics
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, files_found, processed, failed, input_chars, output_chars, started_at, finished_at
		 FROM runs ORDER BY finished_at DESC LIMIT 1`,
	).Scan(&m.RunID, &m.FilesFound, &m.Processed, &m.Failed,
		&m.TotalInputChars, &m.TotalOutputChars, &m.StartedAt, &m.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CountDocuments returns the total number of stored documents.
func (s *SQLiteStorage) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// CountByCategory returns document counts keyed by category.
func (s *SQLiteStorage) CountByCategory(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM documents GROUP BY category`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var category string
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
