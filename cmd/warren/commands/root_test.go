package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubcommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"serve", "look", "flip", "watch", "map", "reset", "simulate"} {
		assert.True(t, names[want], "expected subcommand %q to be registered", want)
	}
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.2.3", "abcdef", "2026-01-01")
	require.Contains(t, rootCmd.Version, "1.2.3")
	require.Contains(t, rootCmd.Version, "abcdef")
}
