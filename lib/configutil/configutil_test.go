package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl string            `json:"base_url"`
	Timeout int               `json:"timeout_seconds"`
	Headers map[string]string `json:"headers"`
}

func writeFile(t testing.TB, path, contents string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parislib.json5")

	_, err := ReadConfig[testConfig](path)
	require.ErrorIs(t, err, os.ErrNotExist)

	writeFile(t, path, `{
		// comments and trailing commas are allowed
		base_url: "https://bibliotheques.paris.fr",
		timeout_seconds: 10,
		headers: {Accept: "application/json"},
	}`)
	config, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "https://bibliotheques.paris.fr", config.BaseUrl)
	require.Equal(t, 10, config.Timeout)

	writeFile(t, filepath.Join(dir, "parislib.local.json5"), `{timeout_seconds: 30, headers: {Origin: "x"}}`)
	config, err = ReadConfig[testConfig](path)
	require.NoError(t, err)

	expected := testConfig{
		BaseUrl: "https://bibliotheques.paris.fr",
		Timeout: 30,
		Headers: map[string]string{"Accept": "application/json", "Origin": "x"},
	}
	if diff := cmp.Diff(expected, config); diff != "" {
		t.Fatal(diff)
	}
}

func TestReadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parislib.json5")
	writeFile(t, path, `{base_url: `)

	_, err := ReadConfig[testConfig](path)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "parislib.json5"), `{base_url: "http://root"}`)
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	config, err := ReadRecursively[testConfig](nested, "parislib.json5")
	require.NoError(t, err)
	require.Equal(t, "http://root", config.BaseUrl)

	writeFile(t, filepath.Join(root, "a", "parislib.json5"), `{base_url: "http://a"}`)
	config, err = ReadRecursively[testConfig](nested, "parislib.json5")
	require.NoError(t, err)
	require.Equal(t, "http://a", config.BaseUrl)

	_, err = ReadRecursively[testConfig](nested, "missing.json5")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWithDefaults(t *testing.T) {
	config, err := WithDefaults(
		testConfig{Timeout: 5},
		testConfig{BaseUrl: "http://default", Timeout: 30},
	)
	require.NoError(t, err)
	require.Equal(t, testConfig{BaseUrl: "http://default", Timeout: 5}, config)
}
