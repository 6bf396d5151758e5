package resources

import (
	"bytes"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/evanw/esbuild/pkg/api"
)

// Bundle file names.
const (
	EntryName  = "app.js"
	BundleName = "bundle.js"
)

// Bundle is the compiled browser script, rebuilt on demand.
type Bundle struct {
	fsys   fs.FS
	minify bool

	mu      sync.RWMutex
	js      []byte
	builtAt time.Time
}

// NewBundle compiles the entry script from fsys.
func NewBundle(fsys fs.FS, minify bool) (*Bundle, error) {
	b := &Bundle{fsys: fsys, minify: minify}
	if err := b.Rebuild(); err != nil {
		return nil, err
	}
	return b, nil
}

// Rebuild recompiles the bundle. On failure the previous build is kept.
func (b *Bundle) Rebuild() error {
	src, err := fs.ReadFile(b.fsys, EntryName)
	if err != nil {
		return fmt.Errorf("read %s: %w", EntryName, err)
	}

	js, err := Compile(src, b.minify)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.js = js
	b.builtAt = time.Now()
	b.mu.Unlock()
	return nil
}

// Bytes returns the current build.
func (b *Bundle) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.js
}

// ServeHTTP serves the current build.
func (b *Bundle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.RLock()
	js, builtAt := b.js, b.builtAt
	b.mu.RUnlock()

	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, BundleName, builtAt, bytes.NewReader(js))
}

// Compile turns one browser script into a self-contained IIFE.
func Compile(src []byte, minify bool) ([]byte, error) {
	opts := api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   string(src),
			Sourcefile: EntryName,
			Loader:     api.LoaderJS,
		},
		Bundle:   true,
		Write:    false,
		Platform: api.PlatformBrowser,
		Format:   api.FormatIIFE,
		Target:   api.ES2020,
		LogLevel: api.LogLevelSilent,
	}
	if minify {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
	}

	result := api.Build(opts)
	if len(result.Errors) > 0 {
		var errMsg string
		for _, e := range result.Errors {
			if e.Location != nil {
				errMsg += fmt.Sprintf("%s:%d:%d: %s\n", e.Location.File, e.Location.Line, e.Location.Column, e.Text)
			} else {
				errMsg += e.Text + "\n"
			}
		}
		return nil, fmt.Errorf("esbuild errors:\n%s", errMsg)
	}
	if len(result.OutputFiles) == 0 {
		return nil, fmt.Errorf("no JavaScript output generated")
	}
	return result.OutputFiles[0].Contents, nil
}
