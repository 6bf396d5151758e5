package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/hybridql/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownWriter(t *testing.T) {
	w := NewMarkdownWriter()
	w.Header(2, "Flags")
	w.Table([]string{"A", "B"}, [][]string{{"x|y", "z"}})
	w.Table([]string{"A"}, nil)
	w.CodeBlock("bash", "hybridql ui\n")

	assert.Equal(t, "## Flags\n\n| A | B |\n| --- | --- |\n| x\\|y | z |\n\n```bash\nhybridql ui\n```\n\n", string(w.Bytes()))
}

func TestCleanExample(t *testing.T) {
	got := cleanExample("  hybridql query \"a\"\n    --limit 5\n")
	assert.Equal(t, "hybridql query \"a\"\n  --limit 5", got)
}

func TestConfigFieldsCoverDefaults(t *testing.T) {
	data, err := json.Marshal(config.Default())
	require.NoError(t, err)
	var tree map[string]any
	require.NoError(t, json.Unmarshal(data, &tree))

	keys := map[string]bool{}
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			if sub, ok := v.(map[string]any); ok {
				walk(prefix+k+".", sub)
				continue
			}
			keys[prefix+k] = true
		}
	}
	walk("", tree)

	documented := map[string]bool{}
	for _, f := range configFields() {
		documented[f.Key] = true
	}
	assert.Equal(t, keys, documented)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "HYBRIDQL_UI__SESSION_TTL", envName("ui.session_ttl"))
	assert.Equal(t, "HYBRIDQL_OUTPUT", envName("output"))
}

func TestGenerateDocs(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, generateCLIDocs(filepath.Join(dir, "cli")))
	require.NoError(t, generateConfigDocs(filepath.Join(dir, "reference")))

	index, err := os.ReadFile(filepath.Join(dir, "cli", "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "[`query`](/cli/query)")
	assert.Contains(t, string(index), "`HYBRIDQL_BACKEND__URL`")

	query, err := os.ReadFile(filepath.Join(dir, "cli", "query.md"))
	require.NoError(t, err)
	assert.Contains(t, string(query), "`--limit`")
	assert.Equal(t, 0, strings.Count(string(query), "```")%2)

	cfg, err := os.ReadFile(filepath.Join(dir, "reference", "configuration.md"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "| `ui.port` | int | `8765` |")
}
