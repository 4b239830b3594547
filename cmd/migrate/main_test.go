package main

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	upErr    error
	steps    []int
	forced   int
	version  uint
	dirty    bool
	versErr  error
	stepsErr error
}

func (f *fakeMigrator) Up() error { return f.upErr }

func (f *fakeMigrator) Steps(n int) error {
	f.steps = append(f.steps, n)
	return f.stepsErr
}

func (f *fakeMigrator) Force(version int) error {
	f.forced = version
	return nil
}

func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, f.dirty, f.versErr }

func TestRunUp(t *testing.T) {
	msg, err := run(&fakeMigrator{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "migrations complete", msg)

	_, err = run(&fakeMigrator{upErr: migrate.ErrNoChange}, []string{"up"})
	assert.NoError(t, err)

	_, err = run(&fakeMigrator{upErr: errors.New("syntax error")}, []string{"up"})
	assert.Error(t, err)
}

func TestRunDown(t *testing.T) {
	m := &fakeMigrator{}
	_, err := run(m, []string{"down"})
	require.NoError(t, err)
	_, err = run(m, []string{"down", "2"})
	require.NoError(t, err)
	assert.Equal(t, []int{-1, -2}, m.steps)

	_, err = run(m, []string{"down", "zero"})
	assert.Error(t, err)
}

func TestRunVersionAndForce(t *testing.T) {
	msg, err := run(&fakeMigrator{version: 1}, []string{"version"})
	require.NoError(t, err)
	assert.Equal(t, "version 1 (dirty=false)", msg)

	msg, err = run(&fakeMigrator{versErr: migrate.ErrNilVersion}, []string{"version"})
	require.NoError(t, err)
	assert.Equal(t, "no migrations applied", msg)

	m := &fakeMigrator{}
	_, err = run(m, []string{"force", "1"})
	require.NoError(t, err)
	assert.Equal(t, 1, m.forced)

	_, err = run(m, []string{"force"})
	assert.Error(t, err)
	_, err = run(m, []string{"sideways"})
	assert.Error(t, err)
}
