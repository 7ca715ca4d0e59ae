package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sjzsdu/dirpilot/config"
	"github.com/sjzsdu/dirpilot/project/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"chat", "digest", "askdir", "editdir", "versions", "config", "prompt", "mcp", "version"} {
		assert.True(t, names[want], want)
	}

	sub, _, err := rootCmd.Find([]string{"versions", "revert"})
	require.NoError(t, err)
	assert.Equal(t, "revert", sub.Name())
}

func TestPolicyFrom(t *testing.T) {
	p, err := policyFrom("", &config.Settings{VersionPolicy: "truncate"})
	require.NoError(t, err)
	assert.Equal(t, version.PolicyTruncate, p)

	p, err = policyFrom("keep", &config.Settings{VersionPolicy: "truncate"})
	require.NoError(t, err)
	assert.Equal(t, version.PolicyKeep, p)

	_, err = policyFrom("sometimes", nil)
	assert.Error(t, err)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", maskSecret("abcd"))
	assert.Equal(t, "sk-1****wxyz", maskSecret("sk-12345wxyz"))
}

func TestDigestCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0644))
	out := filepath.Join(t.TempDir(), "digest.txt")

	rootCmd.SetArgs([]string{"digest", root, "-o", out, "-q"})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "package main")
}

func TestVersionsCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a\n"), 0644))

	rootCmd.SetArgs([]string{"versions", "list", root})
	require.NoError(t, rootCmd.Execute())
	assert.DirExists(t, filepath.Join(root, ".versions"))

	rootCmd.SetArgs([]string{"versions", "revert", root})
	require.NoError(t, rootCmd.Execute())
}
