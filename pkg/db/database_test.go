package db

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "", nil)
	require.Error(t, err)
}

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(context.Background(), "sqlite:file::memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestGormLogger_RecordNotFoundIsQuiet(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	db, err := Open(context.Background(), "sqlite:file::memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	type probe struct{ ID uint }
	require.NoError(t, db.AutoMigrate(&probe{}))

	var p probe
	err = db.First(&p, 42).Error
	require.Error(t, err)
	assert.NotContains(t, buf.String(), "sql_error")
}
