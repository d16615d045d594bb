package engine_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cqlforge/cql2elm/internal/diagnostics"
	"github.com/cqlforge/cql2elm/internal/engine"
	_ "github.com/cqlforge/cql2elm/internal/engine/embedded"
	"github.com/cqlforge/cql2elm/internal/engineapi"
	"github.com/cqlforge/cql2elm/internal/options"
	"github.com/cqlforge/cql2elm/internal/testutil"
)

func writeCQL(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func baseConfig(t *testing.T, input string) engine.Config {
	t.Helper()
	return engine.Config{
		InputPath:   input,
		OutputPath:  filepath.Join(filepath.Dir(input), "output.xml"),
		LibraryPath: filepath.Dir(input),
		Format:      engine.FormatXML,
		Options:     options.Default(),
		Logger:      testutil.NewTestLogger(t),
	}
}

func TestTranslateSimpleLibrary(t *testing.T) {
	dir := t.TempDir()
	input := writeCQL(t, dir, "Test.cql", "library Test\ndefine Hello: 'World'\n")

	res, err := engine.Translate(baseConfig(t, input))
	require.NoError(t, err)

	assert.Equal(t, "embedded", res.Binding)
	assert.Equal(t, engine.StrategyFileWithOptions, res.Strategy)
	assert.NotEmpty(t, res.RunID)
	assert.Greater(t, res.Bytes, 0)

	content, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `name="Hello"`)
	assert.Equal(t, res.Bytes, len(content))
}

func TestTranslateWithDependency(t *testing.T) {
	dir := t.TempDir()
	writeCQL(t, dir, "Other.cql", "library Other version '1.0.0'\ndefine Shared: 1\n")
	input := writeCQL(t, dir, "Main.cql",
		"library Main\ninclude Other version '1.0.0'\ndefine M: Shared\n")

	res, err := engine.Translate(baseConfig(t, input))
	require.NoError(t, err)

	content, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `path="Other"`)
}

func TestTranslateJSONRewritesExtension(t *testing.T) {
	dir := t.TempDir()
	input := writeCQL(t, dir, "Test.cql", "library Test\ndefine N: 7\n")

	cfg := baseConfig(t, input)
	cfg.Format = engine.FormatJSON

	res, err := engine.Translate(cfg)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(res.OutputPath, "output.json"))
	assert.NoFileExists(t, filepath.Join(dir, "output.xml"))

	content, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"library"`)
}

func TestTranslateCustomOutputNameKept(t *testing.T) {
	dir := t.TempDir()
	input := writeCQL(t, dir, "Test.cql", "library Test\n")

	cfg := baseConfig(t, input)
	cfg.Format = engine.FormatJSON
	cfg.OutputPath = filepath.Join(dir, "elm.out")

	res, err := engine.Translate(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "elm.out"), res.OutputPath)
}

func TestTranslateDiagnosticsSuppressOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeCQL(t, dir, "Main.cql", "library Main\ninclude Nowhere\n")

	cfg := baseConfig(t, input)
	_, err := engine.Translate(cfg)
	require.Error(t, err)

	var diagErr *diagnostics.Error
	require.ErrorAs(t, err, &diagErr)
	require.Len(t, diagErr.Messages, 1)
	assert.Contains(t, diagErr.Messages[0], "Could not load source for library Nowhere")

	assert.NoFileExists(t, cfg.OutputPath, "failed runs must not write output")
}

func TestTranslateUnknownBinding(t *testing.T) {
	dir := t.TempDir()
	input := writeCQL(t, dir, "Test.cql", "library Test\n")

	cfg := baseConfig(t, input)
	cfg.Binding = "no-such-engine"

	_, err := engine.Translate(cfg)
	require.Error(t, err)

	var unknownErr *engineapi.UnknownBindingError
	assert.ErrorAs(t, err, &unknownErr)
}

func TestTranslateLegacyBinding(t *testing.T) {
	dir := t.TempDir()
	input := writeCQL(t, dir, "Test.cql", "library Test\ndefine A: 1\n")

	cfg := baseConfig(t, input)
	cfg.Binding = "embedded-legacy"

	res, err := engine.Translate(cfg)
	require.NoError(t, err)
	assert.Equal(t, "embedded-legacy", res.Binding)
	assert.Equal(t, engine.StrategyFile, res.Strategy,
		"the legacy shape only accepts the basic file entry point")
}

func TestTranslateMissingInput(t *testing.T) {
	dir := t.TempDir()

	cfg := baseConfig(t, filepath.Join(dir, "absent.cql"))
	_, err := engine.Translate(cfg)
	require.Error(t, err)
}
