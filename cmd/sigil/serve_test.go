package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunServe_PingAndShutdown(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"ping","id":"1"}`,
		`{"type":"shutdown"}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	err := runServe(cmd, nil)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, `"ready"`)
	assert.Contains(t, output, `"pong"`)
}

func TestRunServe_ExitsOnEOF(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	err := runServe(cmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"ready"`)
}
