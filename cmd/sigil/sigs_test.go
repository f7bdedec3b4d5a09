package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSigsList_Table(t *testing.T) {
	sigsPath = ""
	sigsFormat = "table"

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	err := runSigsList(cmd, nil)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "magic.png")
	assert.Contains(t, output, "PNG image header")
	assert.Contains(t, output, "archive.gzip")
}

func TestRunSigsList_JSON(t *testing.T) {
	sigsPath = ""
	sigsFormat = "json"

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	err := runSigsList(cmd, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"ID": "magic.elf"`)
}

func TestRunSigsList_UnknownFormat(t *testing.T) {
	sigsPath = ""
	sigsFormat = "xml"

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	assert.Error(t, runSigsList(cmd, nil))
}

func TestRunSigsCheck_BuiltinPasses(t *testing.T) {
	sigsPath = ""

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	err := runSigsCheck(cmd, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "signatures valid")
}

func TestRunSigsCheck_CustomFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	yaml := `signatures:
  - name: Broken
    id: test.broken
    pattern: "89 50"
    negative_examples:
      - "895055"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	sigsPath = path
	defer func() { sigsPath = "" }()

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	err := runSigsCheck(cmd, nil)
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "FAIL test.broken")
}
