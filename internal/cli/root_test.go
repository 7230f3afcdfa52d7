package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd("1.2.3")
	require.NotNil(t, root)

	assert.Equal(t, "kwatlas", root.Use)
	assert.Equal(t, "1.2.3", root.Version)

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "analyze")
	assert.Contains(t, names, "task")
	assert.Contains(t, names, "config")

	debug := root.PersistentFlags().Lookup("debug")
	require.NotNil(t, debug)
	assert.Equal(t, "false", debug.DefValue)
}

func TestRootCmd_Help(t *testing.T) {
	out, err := runRootCmd(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "kwatlas")
	assert.Contains(t, out, "analyze")
}

func TestTaskCmd_HasFetchSubcommand(t *testing.T) {
	cmd := newTaskCmd()
	require.Len(t, cmd.Commands(), 1)
	assert.Equal(t, "fetch", cmd.Commands()[0].Name())
}
