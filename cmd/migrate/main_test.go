package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/nutrition-plan-go-api/db"
	"lg/nutrition-plan-go-api/internal/config"
)

func testConfig(dbURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Database.URL = dbURL
	return cfg
}

// A failing migration comes back as an error so deferred cleanup runs; the
// pool connects lazily, so no database is needed.
func TestGooseCommand_ReturnsRunError(t *testing.T) {
	boom := errors.New("boom")
	var gotDir string
	cmd := gooseCommand(testConfig("postgres://postgres@127.0.0.1:1/none"), "up", "",
		func(d *sql.DB, dir string) error {
			require.NotNil(t, d)
			gotDir = dir
			return boom
		})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(nil)

	err := cmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "migrate up")
	assert.Equal(t, db.MigrationsDir, gotDir)
}

func TestGooseCommand_BadURL(t *testing.T) {
	called := false
	cmd := gooseCommand(testConfig("postgres://%zz"), "status", "",
		func(*sql.DB, string) error {
			called = true
			return nil
		})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(nil)

	err := cmd.ExecuteContext(context.Background())
	require.ErrorContains(t, err, "could not connect to database")
	assert.False(t, called)
}

func TestNewRootCommand(t *testing.T) {
	var names []string
	for _, c := range newRootCommand(testConfig("")).Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"up", "down", "status"}, names)
}
