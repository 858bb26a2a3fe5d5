package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptforge/internal/common/database"
	commonerrors "scriptforge/internal/common/errors"
	"scriptforge/internal/common/logger"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return New(&database.PostgresClient{DB: db}, logger.NewTestLogger(t)), mock
}

func scriptRowColumns() []string {
	return []string{
		"id", "script_id", "topic", "style", "duration", "research_data", "sources",
		"title", "description", "keywords", "full_script", "script_sections",
		"estimated_duration", "tone", "target_audience", "tokens_used", "generation_time",
		"created_at", "updated_at",
	}
}

func sampleScript() *Script {
	return &Script{
		ScriptID:          "7f9c0e9e-8a30-4ad8-9f57-0f6f5d1c2ab3",
		Topic:             "How AI is changing software engineering",
		Style:             "educational",
		Duration:          "10-15 minutes",
		ResearchData:      []byte(`{"topic": "ai"}`),
		Sources:           []byte(`[{"title": "paper", "url": "https://example.com"}]`),
		Title:             "AI Will Change How You Code",
		Description:       "A look at AI tooling.",
		Keywords:          []byte(`["ai", "software"]`),
		FullScript:        "Hook... intro... body... conclusion.",
		ScriptSections:    []byte(`{"hook": "Hook..."}`),
		EstimatedDuration: "12 minutes",
		Tone:              "educational",
		TargetAudience:    "developers",
		TokensUsed:        2350,
		GenerationTime:    18.4,
	}
}

func TestInsert(t *testing.T) {
	s, mock := newTestStore(t)
	script := sampleScript()
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO scripts`).
		WithArgs(
			script.ScriptID, script.Topic, script.Style, script.Duration,
			[]byte(script.ResearchData), []byte(script.Sources),
			script.Title, script.Description, []byte(script.Keywords),
			script.FullScript, []byte(script.ScriptSections),
			script.EstimatedDuration, script.Tone, script.TargetAudience,
			script.TokensUsed, script.GenerationTime,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	require.NoError(t, s.Insert(context.Background(), script))
	assert.Equal(t, int64(7), script.ID)
	assert.Equal(t, now, script.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertFailure(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(`INSERT INTO scripts`).WillReturnError(sql.ErrConnDone)

	err := s.Insert(context.Background(), sampleScript())
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeDatabaseInsertFailed, commonerrors.CodeOf(err))
}

func TestGet(t *testing.T) {
	s, mock := newTestStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM scripts WHERE script_id`).
		WithArgs("abc-123").
		WillReturnRows(sqlmock.NewRows(scriptRowColumns()).AddRow(
			int64(1), "abc-123", "topic", "educational", "10-15 minutes",
			[]byte(`{"topic": "t"}`), []byte(`[]`),
			"Title", "Desc", []byte(`["k"]`), "full script", []byte(`{"hook": "h"}`),
			"12 minutes", "educational", "devs", 100, 3.5,
			now, now,
		))

	script, err := s.Get(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", script.ScriptID)
	assert.Equal(t, "full script", script.FullScript)
	assert.JSONEq(t, `{"topic": "t"}`, string(script.ResearchData))
	assert.Equal(t, 100, script.TokensUsed)
}

func TestGetNotFound(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT .+ FROM scripts WHERE script_id`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeScriptNotFound, commonerrors.CodeOf(err))
}

func TestGetNullableColumns(t *testing.T) {
	s, mock := newTestStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM scripts WHERE script_id`).
		WithArgs("bare").
		WillReturnRows(sqlmock.NewRows(scriptRowColumns()).AddRow(
			int64(2), "bare", "topic", "educational", "10-15 minutes",
			nil, nil,
			nil, nil, nil, "raw text only", nil,
			nil, nil, nil, 0, nil,
			now, now,
		))

	script, err := s.Get(context.Background(), "bare")
	require.NoError(t, err)
	assert.Empty(t, script.Title)
	assert.Empty(t, script.ResearchData)
	assert.Zero(t, script.GenerationTime)
	assert.Equal(t, "raw text only", script.FullScript)
}

func TestList(t *testing.T) {
	s, mock := newTestStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM scripts`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	mock.ExpectQuery(`SELECT .+ FROM scripts ORDER BY created_at DESC OFFSET \$1 LIMIT \$2`).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows(scriptRowColumns()).AddRow(
			int64(2), "script-y", "topic y", "educational", "10-15 minutes",
			nil, nil, "Y", "", nil, "script y text", nil,
			"", "", "", 50, 2.0,
			now, now,
		))

	total, scripts, err := s.List(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, scripts, 1)
	assert.Equal(t, "script-y", scripts[0].ScriptID)
}

func TestDelete(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectExec(`DELETE FROM scripts WHERE script_id`).
		WithArgs("abc-123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := s.Delete(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestDeleteMissing(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectExec(`DELETE FROM scripts WHERE script_id`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := s.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMigrate(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS scripts`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.Migrate(context.Background()))
}
