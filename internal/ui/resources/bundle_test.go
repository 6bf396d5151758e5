package resources

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	js, err := Compile([]byte("const greeting = `hi`;\nconsole.log(greeting);\n"), true)
	require.NoError(t, err)
	assert.Contains(t, string(js), "console.log")
}

func TestCompile_SyntaxError(t *testing.T) {
	_, err := Compile([]byte("function ("), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "esbuild errors")
}

func TestBundle_RebuildKeepsLastGoodBuild(t *testing.T) {
	fsys := fstest.MapFS{EntryName: {Data: []byte("console.log('one');")}}

	b, err := NewBundle(fsys, false)
	require.NoError(t, err)
	assert.Contains(t, string(b.Bytes()), "one")

	fsys[EntryName] = &fstest.MapFile{Data: []byte("console.log(")}
	require.Error(t, b.Rebuild())
	assert.Contains(t, string(b.Bytes()), "one")

	fsys[EntryName] = &fstest.MapFile{Data: []byte("console.log('two');")}
	require.NoError(t, b.Rebuild())
	assert.Contains(t, string(b.Bytes()), "two")
}

func TestBundle_ServeHTTP(t *testing.T) {
	b, err := NewBundle(fstest.MapFS{EntryName: {Data: []byte("console.log(1);")}}, true)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	b.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/bundle.js", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/javascript; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "console.log")
}

func TestAppScriptCompiles(t *testing.T) {
	_, err := NewBundle(FS(), true)
	require.NoError(t, err)
}
