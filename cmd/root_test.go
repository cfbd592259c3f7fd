package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"build", "validate", "fetch"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "incident-map", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestBuildCommand_Flags(t *testing.T) {
	for _, flagName := range []string{"croc", "shark", "population", "out"} {
		flag := buildCmd.Flags().Lookup(flagName)
		require.NotNil(t, flag, "build should have --%s flag", flagName)
		assert.Empty(t, flag.DefValue, "--%s should default to the config value", flagName)
	}
}

func TestValidateCommand_Flags(t *testing.T) {
	flag := validateCmd.Flags().Lookup("format")
	require.NotNil(t, flag, "validate should have --format flag")
	assert.Equal(t, "text", flag.DefValue)
}
