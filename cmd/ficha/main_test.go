package main_test

import (
	"bytes"
	"context"
	"testing"

	main "ficha/cmd/ficha"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "ficha")
	assert.Contains(t, stdout.String(), "--start-page")
	assert.Contains(t, stdout.String(), "--dry-run")
}

func TestMain_Run_RejectsUnknownFlag(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--bogus"}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_RejectsUnknownLedgerBackend(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--ledger", "postgres"}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_RejectsNonPositiveStartPage(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--start-page", "0"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "start page")
}

func TestMain_Run_RejectsEndPageBeforeStartPage(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--start-page", "5", "--end-page", "3"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "precedes")
}
