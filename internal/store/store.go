// Package store persists generated scripts in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"scriptforge/internal/common/database"
	commonerrors "scriptforge/internal/common/errors"
	"scriptforge/internal/common/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS scripts (
	id                 BIGSERIAL PRIMARY KEY,
	script_id          VARCHAR(36) UNIQUE NOT NULL,
	topic              VARCHAR(500) NOT NULL,
	style              VARCHAR(50) DEFAULT 'educational',
	duration           VARCHAR(50) DEFAULT '10-15 minutes',
	research_data      JSONB,
	sources            JSONB,
	title              VARCHAR(200),
	description        TEXT,
	keywords           JSONB,
	full_script        TEXT NOT NULL,
	script_sections    JSONB,
	estimated_duration VARCHAR(50),
	tone               VARCHAR(50),
	target_audience    VARCHAR(200),
	tokens_used        INTEGER DEFAULT 0,
	generation_time    DOUBLE PRECISION,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_scripts_script_id ON scripts (script_id);
CREATE INDEX IF NOT EXISTS idx_scripts_created_at ON scripts (created_at DESC);
`

const scriptColumns = `id, script_id, topic, style, duration, research_data, sources,
	title, description, keywords, full_script, script_sections,
	estimated_duration, tone, target_audience, tokens_used, generation_time,
	created_at, updated_at`

// Store provides script persistence over a PostgresClient.
type Store struct {
	db     *database.PostgresClient
	logger logger.Logger
}

func New(db *database.PostgresClient, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.With(map[string]interface{}{"component": "store"}),
	}
}

// Migrate creates the scripts table when absent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate scripts table: %w", err)
	}
	return nil
}

// Insert writes one complete script row and fills in the generated id
// and timestamps.
func (s *Store) Insert(ctx context.Context, script *Script) error {
	query := `INSERT INTO scripts (
		script_id, topic, style, duration, research_data, sources,
		title, description, keywords, full_script, script_sections,
		estimated_duration, tone, target_audience, tokens_used, generation_time
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	RETURNING id, created_at, updated_at`

	err := s.db.QueryRow(ctx, query,
		script.ScriptID, script.Topic, script.Style, script.Duration,
		nullableJSON(script.ResearchData), nullableJSON(script.Sources),
		script.Title, script.Description, nullableJSON(script.Keywords),
		script.FullScript, nullableJSON(script.ScriptSections),
		script.EstimatedDuration, script.Tone, script.TargetAudience,
		script.TokensUsed, script.GenerationTime,
	).Scan(&script.ID, &script.CreatedAt, &script.UpdatedAt)
	if err != nil {
		return commonerrors.NewDatabaseInsertError(err)
	}

	s.logger.Info("script persisted", map[string]interface{}{
		"scriptId": script.ScriptID,
		"topic":    script.Topic,
	})
	return nil
}

// Get fetches one script by its public script_id.
func (s *Store) Get(ctx context.Context, scriptID string) (*Script, error) {
	query := fmt.Sprintf(`SELECT %s FROM scripts WHERE script_id = $1`, scriptColumns)

	script, err := scanScript(s.db.QueryRow(ctx, query, scriptID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, commonerrors.NewScriptNotFoundError(scriptID)
	}
	if err != nil {
		return nil, commonerrors.NewDatabaseQueryError(err)
	}
	return script, nil
}

// List returns the total row count plus one creation-descending page.
func (s *Store) List(ctx context.Context, skip, limit int) (int, []*Script, error) {
	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM scripts`).Scan(&total); err != nil {
		return 0, nil, commonerrors.NewDatabaseQueryError(err)
	}

	query := fmt.Sprintf(`SELECT %s FROM scripts ORDER BY created_at DESC OFFSET $1 LIMIT $2`, scriptColumns)
	rows, err := s.db.Query(ctx, query, skip, limit)
	if err != nil {
		return 0, nil, commonerrors.NewDatabaseQueryError(err)
	}
	defer rows.Close()

	var scripts []*Script
	for rows.Next() {
		script, err := scanScript(rows)
		if err != nil {
			return 0, nil, commonerrors.NewDatabaseQueryError(err)
		}
		scripts = append(scripts, script)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, commonerrors.NewDatabaseQueryError(err)
	}

	return total, scripts, nil
}

// Delete removes one script. Returns false when no row matched.
func (s *Store) Delete(ctx context.Context, scriptID string) (bool, error) {
	result, err := s.db.Exec(ctx, `DELETE FROM scripts WHERE script_id = $1`, scriptID)
	if err != nil {
		return false, commonerrors.NewDatabaseQueryError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, commonerrors.NewDatabaseQueryError(err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScript(row rowScanner) (*Script, error) {
	var (
		script            Script
		researchData      []byte
		sources           []byte
		keywords          []byte
		scriptSections    []byte
		title             sql.NullString
		description       sql.NullString
		estimatedDuration sql.NullString
		tone              sql.NullString
		targetAudience    sql.NullString
		generationTime    sql.NullFloat64
	)

	err := row.Scan(
		&script.ID, &script.ScriptID, &script.Topic, &script.Style, &script.Duration,
		&researchData, &sources,
		&title, &description, &keywords, &script.FullScript, &scriptSections,
		&estimatedDuration, &tone, &targetAudience,
		&script.TokensUsed, &generationTime,
		&script.CreatedAt, &script.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	script.ResearchData = researchData
	script.Sources = sources
	script.Keywords = keywords
	script.ScriptSections = scriptSections
	script.Title = title.String
	script.Description = description.String
	script.EstimatedDuration = estimatedDuration.String
	script.Tone = tone.String
	script.TargetAudience = targetAudience.String
	script.GenerationTime = generationTime.Float64

	return &script, nil
}

// nullableJSON maps empty blobs to SQL NULL instead of invalid empty
// JSONB values.
func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
