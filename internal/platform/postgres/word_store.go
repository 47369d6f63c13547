package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vocabloom/vocabloom-api/internal/domain"
	"github.com/vocabloom/vocabloom-api/internal/platform/logger"
	"github.com/vocabloom/vocabloom-api/internal/store"
)

// defaultWordPageSize is applied when a list query does not set a limit.
const defaultWordPageSize = 20

// wordColumns is the column list shared by every word SELECT.
const wordColumns = `id, text, level, difficulty, definition, phonetic,
	audio_url, image_url, example_sentence, meanings, synonyms,
	created_at, updated_at`

// PostgresWordStore implements the store.WordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresWordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWordStore creates a new PostgreSQL implementation of the WordStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresWordStore(db store.DBTX, logger *slog.Logger) *PostgresWordStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWordStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_store")),
	}
}

// Ensure PostgresWordStore implements store.WordStore interface
var _ store.WordStore = (*PostgresWordStore)(nil)

// WithTx implements store.WordStore.WithTx
func (s *PostgresWordStore) WithTx(tx *sql.Tx) store.WordStore {
	return &PostgresWordStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.WordStore.Create
// It saves a new word to the database, handling domain validation.
// Returns store.ErrWordExists if a word with the same text already exists.
func (s *PostgresWordStore) Create(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		log.Warn("word validation failed during create",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return err
	}

	meanings, err := json.Marshal(word.Meanings)
	if err != nil {
		return fmt.Errorf("failed to marshal meanings: %w", err)
	}
	synonyms, err := json.Marshal(word.Synonyms)
	if err != nil {
		return fmt.Errorf("failed to marshal synonyms: %w", err)
	}

	query := `
		INSERT INTO words (id, text, level, difficulty, definition, phonetic,
			audio_url, image_url, example_sentence, meanings, synonyms,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		word.ID,
		word.Text,
		word.Level,
		word.Difficulty,
		word.Definition,
		word.Phonetic,
		word.AudioURL,
		word.ImageURL,
		word.ExampleSentence,
		meanings,
		synonyms,
		word.CreatedAt,
		word.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate word text during create",
				slog.String("text", word.Text))
			return MapUniqueViolation(err, store.ErrWordExists)
		}
		log.Error("failed to create word",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return MapError(err)
	}

	log.Info("word created successfully",
		slog.String("word_id", word.ID.String()),
		slog.String("text", word.Text),
		slog.String("level", string(word.Level)))
	return nil
}

// GetByID implements store.WordStore.GetByID
// Returns store.ErrWordNotFound if the word does not exist.
func (s *PostgresWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + wordColumns + ` FROM words WHERE id = $1`

	word, err := scanWord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("word not found", slog.String("word_id", id.String()))
			return nil, store.ErrWordNotFound
		}
		log.Error("failed to get word by ID",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return nil, MapError(err)
	}

	return word, nil
}

// GetByText implements store.WordStore.GetByText
// Lookup is by canonical lowercased text.
// Returns store.ErrWordNotFound if the word does not exist.
func (s *PostgresWordStore) GetByText(ctx context.Context, text string) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	normalized := strings.ToLower(strings.TrimSpace(text))

	query := `SELECT ` + wordColumns + ` FROM words WHERE text = $1`

	word, err := scanWord(s.db.QueryRowContext(ctx, query, normalized))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("word not found by text", slog.String("text", normalized))
			return nil, store.ErrWordNotFound
		}
		log.Error("failed to get word by text",
			slog.String("error", err.Error()),
			slog.String("text", normalized))
		return nil, MapError(err)
	}

	return word, nil
}

// List implements store.WordStore.List
// It returns the matching page ordered by text ascending, together with the
// total count of matching words ignoring pagination.
func (s *PostgresWordStore) List(
	ctx context.Context,
	query store.ListWordsQuery,
) ([]*domain.Word, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if query.Limit <= 0 {
		query.Limit = defaultWordPageSize
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	where, args := buildWordFilter(query)

	var total int
	countQuery := `SELECT COUNT(*) FROM words` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count words",
			slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	pageQuery := fmt.Sprintf(
		`SELECT `+wordColumns+` FROM words%s ORDER BY text ASC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	args = append(args, query.Limit, query.Offset)

	rows, err := s.db.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		log.Error("failed to query words",
			slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}
	defer closeRows(rows, log)

	words, err := collectWords(rows)
	if err != nil {
		log.Error("failed to scan word rows",
			slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	log.Debug("listed words",
		slog.Int("count", len(words)),
		slog.Int("total", total))
	return words, total, nil
}

// Random implements store.WordStore.Random
// Sampling uses the database's random ordering, which is acceptable at
// vocabulary catalog sizes.
func (s *PostgresWordStore) Random(
	ctx context.Context,
	level domain.Level,
	count int,
) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if count <= 0 {
		count = 1
	}

	var (
		query string
		args  []interface{}
	)
	if level != "" {
		query = `SELECT ` + wordColumns + ` FROM words WHERE level = $1 ORDER BY random() LIMIT $2`
		args = []interface{}{level, count}
	} else {
		query = `SELECT ` + wordColumns + ` FROM words ORDER BY random() LIMIT $1`
		args = []interface{}{count}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query random words",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	words, err := collectWords(rows)
	if err != nil {
		log.Error("failed to scan random word rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return words, nil
}

// SampleByLevel implements store.WordStore.SampleByLevel
// Used to source quiz distractors of the same proficiency level.
func (s *PostgresWordStore) SampleByLevel(
	ctx context.Context,
	level domain.Level,
	excludeID uuid.UUID,
	limit int,
	requireImage bool,
) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		return []*domain.Word{}, nil
	}

	query := `SELECT ` + wordColumns + ` FROM words WHERE level = $1 AND id <> $2`
	if requireImage {
		query += ` AND image_url <> ''`
	}
	query += ` ORDER BY random() LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, level, excludeID, limit)
	if err != nil {
		log.Error("failed to sample words by level",
			slog.String("error", err.Error()),
			slog.String("level", string(level)))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	words, err := collectWords(rows)
	if err != nil {
		log.Error("failed to scan sampled word rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return words, nil
}

// buildWordFilter assembles the WHERE clause for list queries.
func buildWordFilter(query store.ListWordsQuery) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)

	if query.Level != "" {
		args = append(args, query.Level)
		conditions = append(conditions, fmt.Sprintf("level = $%d", len(args)))
	}
	if query.Difficulty > 0 {
		args = append(args, query.Difficulty)
		conditions = append(conditions, fmt.Sprintf("difficulty = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWord(row rowScanner) (*domain.Word, error) {
	var (
		word     domain.Word
		level    string
		meanings []byte
		synonyms []byte
	)

	err := row.Scan(
		&word.ID,
		&word.Text,
		&level,
		&word.Difficulty,
		&word.Definition,
		&word.Phonetic,
		&word.AudioURL,
		&word.ImageURL,
		&word.ExampleSentence,
		&meanings,
		&synonyms,
		&word.CreatedAt,
		&word.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	word.Level = domain.Level(level)

	if len(meanings) > 0 {
		if err := json.Unmarshal(meanings, &word.Meanings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal meanings: %w", err)
		}
	}
	if len(synonyms) > 0 {
		if err := json.Unmarshal(synonyms, &word.Synonyms); err != nil {
			return nil, fmt.Errorf("failed to unmarshal synonyms: %w", err)
		}
	}

	word.CreatedAt = word.CreatedAt.UTC()
	word.UpdatedAt = word.UpdatedAt.UTC()

	return &word, nil
}

func collectWords(rows *sql.Rows) ([]*domain.Word, error) {
	var words []*domain.Word
	for rows.Next() {
		word, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if words == nil {
		words = []*domain.Word{}
	}
	return words, nil
}

func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}

// touchTimestamp returns the current UTC time for updated_at columns.
func touchTimestamp() time.Time {
	return time.Now().UTC()
}
