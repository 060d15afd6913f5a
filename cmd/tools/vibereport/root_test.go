package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zhouzirui/chat-vibes/backend/internal/analysis/metrics"
)

const transcriptFixture = "[12/01/2024, 09:00:00] Alice: Good morning 😀\n" +
	"[12/01/2024, 09:02:00] Bob: Morning! https://example.com\n" +
	"[12/01/2024, 09:03:00] Bob: coffee?\n" +
	"[12/01/2024, 22:15:00] Alice: night all\n"

func writeChat(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chat.txt")
	require.NoError(t, os.WriteFile(path, []byte(transcriptFixture), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyzeSingleMetricJSON(t *testing.T) {
	out, _, err := run(t, "analyze", writeChat(t), "--metric", "volume", "--limit", "1", "-o", "json")
	require.NoError(t, err)

	var v metrics.Volume
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, 4, v.TotalMessages)
	require.Len(t, v.Data, 1)
}

func TestAnalyzeAllYAML(t *testing.T) {
	out, _, err := run(t, "analyze", writeChat(t), "-o", "yaml")
	require.NoError(t, err)

	var sections []struct {
		Metric string `yaml:"metric"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &sections))
	require.Len(t, sections, len(metrics.Names))
	for i, name := range metrics.Names {
		assert.Equal(t, name, sections[i].Metric)
	}
}

func TestAnalyzeText(t *testing.T) {
	out, _, err := run(t, "analyze", writeChat(t), "--metric", "summary", "--narrate")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "SUMMARY\n"))
	assert.Contains(t, out, "total_messages: 4")
	assert.Contains(t, out, "NARRATIVE")
	assert.NotContains(t, out, "\x1b[")
}

func TestAnalyzeErrors(t *testing.T) {
	path := writeChat(t)

	_, _, err := run(t, "analyze", path, "--metric", "vibes")
	assert.ErrorContains(t, err, "unknown metric")

	_, _, err = run(t, "analyze", path, "--metric", "leaderboard", "--limit", "30")
	assert.ErrorContains(t, err, "between 1 and 20")

	_, _, err = run(t, "analyze", path, "-o", "xml")
	assert.ErrorContains(t, err, "invalid output format")

	_, _, err = run(t, "analyze", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	notes := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("no timestamps here\n"), 0o644))
	_, _, err = run(t, "analyze", notes)
	assert.ErrorContains(t, err, "could not parse any messages")
}

func TestCompare(t *testing.T) {
	out, _, err := run(t, "compare", writeChat(t), "Bob", "-o", "json")
	require.NoError(t, err)

	var cmp metrics.Comparison
	require.NoError(t, json.Unmarshal([]byte(out), &cmp))
	assert.Equal(t, "Bob", cmp.UserName)

	_, _, err = run(t, "compare", writeChat(t), "Zed")
	assert.ErrorContains(t, err, "not found")
}

func TestVerboseLogsDiagnostics(t *testing.T) {
	_, stderr, err := run(t, "analyze", writeChat(t), "--metric", "links", "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "transcript parsed")
	assert.Contains(t, stderr, "grammar_example")
	assert.Contains(t, stderr, "D/M/Y, H:MM:SS")
}

func TestMetricsList(t *testing.T) {
	out, _, err := run(t, "metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "leaderboard          limit 1..20 (default 5)")
	assert.Contains(t, out, "activity/hourly\n")
}
