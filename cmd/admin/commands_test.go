package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["seed"])
	assert.True(t, names["reconcile"])

	f := reconcileCmd.Flags().Lookup("concurrency")
	require.NotNil(t, f)
	assert.Equal(t, "4", f.DefValue)
	assert.Equal(t, "c", f.Shorthand)

	require.NotNil(t, seedCmd.Flags().Lookup("users"))
}

func TestSeedRejectsArgs(t *testing.T) {
	rootCmd.SetArgs([]string{"seed", "extra"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
