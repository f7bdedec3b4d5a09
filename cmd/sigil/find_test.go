package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blob.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func resetFindFlags() {
	findStep = 1
	findAll = false
	findFormat = "human"
}

func TestRunFind_Hit(t *testing.T) {
	resetFindFlags()
	path := writeTempFile(t, []byte{0x00, 0x10, 0x20, 0x30})

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	err := runFind(cmd, []string{"10 ? 30", path})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "0x00000001")
}

func TestRunFind_CursorAdjustsOffset(t *testing.T) {
	resetFindFlags()
	path := writeTempFile(t, []byte{0xE8, 0x11, 0x22, 0x33, 0x44})

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	err := runFind(cmd, []string{"E8 ^ ? ? ? ?", path})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "0x00000001")
}

func TestRunFind_Miss(t *testing.T) {
	resetFindFlags()
	path := writeTempFile(t, []byte{0x01, 0x02})

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	err := runFind(cmd, []string{"AA BB", path})
	assert.ErrorIs(t, err, errNotFound)
	assert.Contains(t, buf.String(), "not found")
}

func TestRunFind_AllJSON(t *testing.T) {
	resetFindFlags()
	findAll = true
	findFormat = "json"
	path := writeTempFile(t, []byte{0xCC, 0x01, 0xCC})

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	err := runFind(cmd, []string{"CC", path})
	require.NoError(t, err)

	var result findResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.True(t, result.Found)
	assert.Equal(t, []int{0, 2}, result.Offsets)
	assert.Equal(t, "CC", result.Pattern)
}

func TestRunFind_BadPattern(t *testing.T) {
	resetFindFlags()
	path := writeTempFile(t, []byte{0x01})

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	err := runFind(cmd, []string{"XYZ", path})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errNotFound)
}

func TestRunFind_MissingFile(t *testing.T) {
	resetFindFlags()
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	err := runFind(cmd, []string{"CC", filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}
