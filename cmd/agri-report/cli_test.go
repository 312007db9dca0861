package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// ==========================
// Test Helper Functions
// ==========================

func testRunOptions() *runOptions {
	return &runOptions{
		seed:    42,
		timeout: 5 * time.Second,
		clock:   clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		newID:   func() string { return "report-1" },
	}
}

func runWith(t *testing.T, output, name string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	err := runReport(cmd, &globalOptions{output: output}, testRunOptions(), name, args)
	return out.String(), err
}

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func copyRegistry(t *testing.T) string {
	data, err := os.ReadFile("../../configs/template-registry.json")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "template-registry.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// ==========================
// run
// ==========================

func TestRun_JSON(t *testing.T) {
	out, err := runWith(t, "json", "market-intelligence", "Hat Yai", "corn", "7.0", "100.47")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	meta := doc["metadata"].(map[string]interface{})
	assert.Equal(t, "Hat Yai", meta["location"])
	assert.Equal(t, "corn", meta["cropType"])
	assert.Equal(t, float64(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).UnixMilli()), meta["timestamp"])
}

func TestRun_SameSeedSameReport(t *testing.T) {
	first, err := runWith(t, "json", "photo-verification", "abc123", "tomato", "Songkhla", "7.2", "100.6", "http://inference.local")
	require.NoError(t, err)
	second, err := runWith(t, "json", "photo-verification", "abc123", "tomato", "Songkhla", "7.2", "100.6", "http://inference.local")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRun_YAMLKeepsKeyOrder(t *testing.T) {
	out, err := runWith(t, "yaml", "market-intelligence", "Hat Yai", "corn", "7.0", "100.47")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "prices:"), out)

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	meta := doc["metadata"].(map[string]interface{})
	assert.Equal(t, "Hat Yai", meta["location"])
}

func TestRun_ErrorReport(t *testing.T) {
	out, err := runWith(t, "json", "market-intelligence", "Hat Yai")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errReportFailed))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, true, doc["error"])
	assert.Equal(t, "expected 4 arguments, got 1", doc["message"])
}

func TestRun_UnknownTemplate(t *testing.T) {
	_, err := runWith(t, "json", "yield-forecast")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown template "yield-forecast"`)
}

func TestRun_UnknownFormat(t *testing.T) {
	_, err := runWith(t, "toml", "market-intelligence", "Hat Yai", "corn", "7.0", "100.47")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

// ==========================
// registry, templates, provision
// ==========================

func TestRegistryValidate(t *testing.T) {
	out, err := execute(t, "registry", "validate", "--path", "../../configs/template-registry.json")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 5 templates")
}

func TestRegistryUpdateAndShow(t *testing.T) {
	path := copyRegistry(t)

	out, err := execute(t, "registry", "update", "--path", path, "--id", "photo-verification", "--field", "status", "--value", "verified")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated template photo-verification")

	out, err = execute(t, "registry", "show", "photo-verification", "--path", path, "-o", "yaml")
	require.NoError(t, err)
	var def map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &def))
	assert.Equal(t, "verified", def["implementationStatus"])
	assert.Equal(t, 6, def["arity"])

	_, err = execute(t, "registry", "update", "--path", path, "--id", "photo-verification", "--field", "arity", "--value", "3")
	assert.Error(t, err)
}

func TestTemplates(t *testing.T) {
	out, err := execute(t, "templates", "--path", "../../configs/template-registry.json")
	require.NoError(t, err)
	assert.Contains(t, out, "TEMPLATE")
	assert.Contains(t, out, "insurance-verification")
	assert.Contains(t, out, "imageHash, cropType, location, lat, lon, inferenceBaseURL")
}

func TestProvision_DryRunWithoutBackends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("camunda:\n  broker_address: localhost:26500\n"), 0o644))

	out, err := execute(t, "provision", "--dry-run", "--config", path)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Empty(t, doc["steps"])
}

func TestWriteDocument_YAMLQuotesNumericStrings(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDocument(&buf, "yaml", []byte(`{"claimId":"123","amount":123}`)))

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "123", doc["claimId"])
	assert.Equal(t, 123, doc["amount"])
}
