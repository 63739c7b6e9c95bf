package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/platform/logger"
	"github.com/gradaid/gradaid-api/internal/store"
)

const documentColumns = `id, application_id, user_id, type, title, status, progress, content,
	recommender_name, recommender_email, last_edited, ai_suggestions_count`

// PostgresDocumentStore implements the store.DocumentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDocumentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDocumentStore creates a new PostgreSQL implementation of the DocumentStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresDocumentStore(db store.DBTX, logger *slog.Logger) *PostgresDocumentStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDocumentStore{
		db:     db,
		logger: logger.With(slog.String("component", "document_store")),
	}
}

// Ensure PostgresDocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*PostgresDocumentStore)(nil)

// WithTx implements store.DocumentStore.WithTx
func (s *PostgresDocumentStore) WithTx(tx *sql.Tx) store.DocumentStore {
	return &PostgresDocumentStore{db: tx, logger: s.logger}
}

// Create implements store.DocumentStore.Create
func (s *PostgresDocumentStore) Create(ctx context.Context, doc *domain.ApplicationDocument) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := doc.Validate(); err != nil {
		log.Warn("document validation failed during create",
			slog.String("error", err.Error()),
			slog.String("document_id", doc.ID.String()))
		return err
	}

	query := `
		INSERT INTO application_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		doc.ID,
		doc.ApplicationID,
		doc.UserID,
		doc.Type,
		doc.Title,
		doc.Status,
		doc.Progress,
		doc.Content,
		nullString(doc.RecommenderName),
		nullString(doc.RecommenderEmail),
		doc.LastEdited,
		doc.AISuggestionsCount,
	)
	if err != nil {
		log.Error("failed to create document",
			slog.String("error", err.Error()),
			slog.String("document_id", doc.ID.String()),
			slog.String("application_id", doc.ApplicationID.String()))
		return MapError(err)
	}

	log.Debug("document created",
		slog.String("document_id", doc.ID.String()),
		slog.String("type", string(doc.Type)))
	return nil
}

// CreateMultiple implements store.DocumentStore.CreateMultiple
// All documents are validated before any is inserted.
func (s *PostgresDocumentStore) CreateMultiple(ctx context.Context, docs []*domain.ApplicationDocument) error {
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			return err
		}
	}

	for _, doc := range docs {
		if err := s.Create(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// GetByID implements store.DocumentStore.GetByID
func (s *PostgresDocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ApplicationDocument, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + documentColumns + ` FROM application_documents WHERE id = $1`
	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("document not found", slog.String("document_id", id.String()))
			return nil, store.ErrDocumentNotFound
		}
		log.Error("failed to get document",
			slog.String("error", err.Error()),
			slog.String("document_id", id.String()))
		return nil, MapError(err)
	}
	return doc, nil
}

// ListByApplication implements store.DocumentStore.ListByApplication
func (s *PostgresDocumentStore) ListByApplication(
	ctx context.Context,
	applicationID uuid.UUID,
) ([]*domain.ApplicationDocument, error) {
	query := `SELECT ` + documentColumns + `
		FROM application_documents
		WHERE application_id = $1
		ORDER BY created_at ASC, id ASC`
	return s.list(ctx, query, applicationID)
}

// ListByUser implements store.DocumentStore.ListByUser
func (s *PostgresDocumentStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ApplicationDocument, error) {
	query := `SELECT ` + documentColumns + `
		FROM application_documents
		WHERE user_id = $1
		ORDER BY last_edited DESC`
	return s.list(ctx, query, userID)
}

func (s *PostgresDocumentStore) list(ctx context.Context, query string, arg any) ([]*domain.ApplicationDocument, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		log.Error("failed to list documents", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	docs := []*domain.ApplicationDocument{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			log.Error("failed to scan document row", slog.String("error", err.Error()))
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Update implements store.DocumentStore.Update
func (s *PostgresDocumentStore) Update(ctx context.Context, doc *domain.ApplicationDocument) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := doc.Validate(); err != nil {
		log.Warn("document validation failed during update",
			slog.String("error", err.Error()),
			slog.String("document_id", doc.ID.String()))
		return err
	}

	query := `
		UPDATE application_documents
		SET status = $1, progress = $2, content = $3, recommender_name = $4,
			recommender_email = $5, last_edited = $6, ai_suggestions_count = $7
		WHERE id = $8
	`
	result, err := s.db.ExecContext(ctx, query,
		doc.Status,
		doc.Progress,
		doc.Content,
		nullString(doc.RecommenderName),
		nullString(doc.RecommenderEmail),
		doc.LastEdited,
		doc.AISuggestionsCount,
		doc.ID,
	)
	if err != nil {
		log.Error("failed to update document",
			slog.String("error", err.Error()),
			slog.String("document_id", doc.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrDocumentNotFound)
}

func scanDocument(row rowScanner) (*domain.ApplicationDocument, error) {
	var (
		doc              domain.ApplicationDocument
		docType          string
		status           string
		recommenderName  sql.NullString
		recommenderEmail sql.NullString
	)

	err := row.Scan(
		&doc.ID,
		&doc.ApplicationID,
		&doc.UserID,
		&docType,
		&doc.Title,
		&status,
		&doc.Progress,
		&doc.Content,
		&recommenderName,
		&recommenderEmail,
		&doc.LastEdited,
		&doc.AISuggestionsCount,
	)
	if err != nil {
		return nil, err
	}

	doc.Type = domain.DocumentType(docType)
	doc.Status = domain.DocumentStatus(status)
	doc.RecommenderName = recommenderName.String
	doc.RecommenderEmail = recommenderEmail.String
	return &doc, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
