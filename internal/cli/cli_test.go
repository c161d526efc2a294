package cli

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/shadowboard/shadowboard/pkg/cache"
	"github.com/shadowboard/shadowboard/pkg/config"
	"github.com/shadowboard/shadowboard/pkg/errors"
	"github.com/shadowboard/shadowboard/pkg/export"
	"github.com/shadowboard/shadowboard/pkg/pipeline"
)

// testEnv runs commands against a config in a temp dir and captures
// their output.
type testEnv struct {
	cli    *CLI
	dir    string
	config string
	out    *bytes.Buffer
	opened []string
}

const testConfig = `[cache]
backend = "file"
dir = %q

[profiles.default]
title = "Shadowboard Template"
organization = "Shadowboard"
url = "shadowboard.app"
tiled_printing = true

[profiles.alternate]
title = "Shadowboard Template"
organization = "Shadowboard Foam Inserts"
url = "shadowboardfoam.com"
`

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{dir: dir, config: filepath.Join(dir, "config.toml"), out: &bytes.Buffer{}}

	data := fmt.Sprintf(testConfig, filepath.ToSlash(filepath.Join(dir, "cache")))
	if err := os.WriteFile(env.config, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	env.cli = New(io.Discard, LogInfo)
	env.cli.Opener = export.OpenerFunc(func(target string) { env.opened = append(env.opened, target) })

	old := stdout
	stdout = env.out
	t.Cleanup(func() { stdout = old })
	return env
}

func (e *testEnv) run(args ...string) error {
	root := e.cli.RootCommand()
	root.SetArgs(append([]string{"--config", e.config}, args...))
	root.SetOut(e.out)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestGenerate(t *testing.T) {
	env := newTestEnv(t)
	out := filepath.Join(env.dir, "out")

	if err := env.run("generate", "-W", "5", "-H", "3", "-o", out); err != nil {
		t.Fatalf("generate: %v", err)
	}

	f, err := os.Open(filepath.Join(out, "shadowboard-template-5x3.png"))
	if err != nil {
		t.Fatalf("expected PNG: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 504 || b.Dy() != 360 {
		t.Errorf("image size = %dx%d, want 504x360", b.Dx(), b.Dy())
	}
	if !strings.Contains(env.out.String(), "fresh") {
		t.Errorf("first run should render fresh:\n%s", env.out.String())
	}

	env.out.Reset()
	if err := env.run("generate", "-W", "5", "-H", "3", "-o", out); err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if !strings.Contains(env.out.String(), "cached") {
		t.Errorf("second run should be served from cache:\n%s", env.out.String())
	}
}

func TestGenerateFormats(t *testing.T) {
	env := newTestEnv(t)
	out := filepath.Join(env.dir, "out")

	err := env.run("generate", "-m", "metric", "-W", "254", "-H", "127", "-f", "png,pdf,tiled-html", "-o", out, "--no-cache")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, name := range []string{
		"shadowboard-template-10x5.png",
		"shadowboard-template-10x5.pdf",
		"shadowboard-template-10x5-tiled.html",
	} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestGenerateFraction(t *testing.T) {
	env := newTestEnv(t)
	out := filepath.Join(env.dir, "out")

	err := env.run("generate", "-m", "fraction",
		"--width-whole", "2", "--width-num", "3", "--width-den", "4",
		"--height-whole", "1", "-o", out, "--open")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := filepath.Join(out, "shadowboard-template-2.75x1.png")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("missing output: %v", err)
	}
	if !slices.Equal(env.opened, []string{want}) {
		t.Errorf("opened = %v, want [%s]", env.opened, want)
	}
}

func TestGenerateEmpty(t *testing.T) {
	env := newTestEnv(t)
	out := filepath.Join(env.dir, "out")

	if err := env.run("generate", "-W", "0", "-H", "3", "-o", out); err != nil {
		t.Fatalf("empty input should not fail: %v", err)
	}
	if !strings.Contains(env.out.String(), "No template") {
		t.Errorf("expected warning, got:\n%s", env.out.String())
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no output directory should be created for an empty template")
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad format", []string{"generate", "-W", "5", "-H", "3", "-f", "svg"}, errors.ErrCodeInvalidFormat},
		{"bad mode", []string{"generate", "-m", "cubits", "-W", "5", "-H", "3"}, errors.ErrCodeInvalidMode},
		{"bad denominator", []string{"generate", "-m", "fraction", "--width-whole", "1", "--width-den", "3"}, errors.ErrCodeInvalidInput},
		{"unknown profile", []string{"generate", "-W", "5", "-H", "3", "-p", "nope", "--no-cache"}, errors.ErrCodeInvalidProfile},
		{"tiled disabled", []string{"generate", "-W", "5", "-H", "3", "-p", "alternate", "-f", "tiled-pdf", "--no-cache"}, errors.ErrCodeUnsupported},
		{"too large", []string{"generate", "-W", "1e9", "-H", "1", "--no-cache"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			err := env.run(append(tt.args, "-o", env.dir)...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	env := newTestEnv(t)
	out := filepath.Join(env.dir, "print")

	if err := env.run("print", "-W", "10", "-H", "10", "--tiled", "-o", out); err != nil {
		t.Fatalf("print: %v", err)
	}
	want := filepath.Join(out, "shadowboard-template-10x10-tiled.html")
	if !slices.Equal(env.opened, []string{want}) {
		t.Fatalf("opened = %v, want [%s]", env.opened, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), `class="page"`); got != 4 {
		t.Errorf("tiled document has %d pages, want 4", got)
	}
}

func TestPrintFormat(t *testing.T) {
	tests := []struct {
		tiled, pdf bool
		want       string
	}{
		{false, false, pipeline.FormatHTML},
		{false, true, pipeline.FormatPDF},
		{true, false, pipeline.FormatTiledHTML},
		{true, true, pipeline.FormatTiledPDF},
	}
	for _, tt := range tests {
		if got := printFormat(tt.tiled, tt.pdf); got != tt.want {
			t.Errorf("printFormat(%v, %v) = %q, want %q", tt.tiled, tt.pdf, got, tt.want)
		}
	}
}

func TestTile(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("tile", "-W", "10", "-H", "10"); err != nil {
		t.Fatalf("tile: %v", err)
	}
	got := env.out.String()
	for _, want := range []string{"2 across x 2 down (4 total)", "Row 2", "Col 2", "100% scale"} {
		if !strings.Contains(got, want) {
			t.Errorf("tile output missing %q:\n%s", want, got)
		}
	}

	err := env.run("tile", "-W", "10", "-H", "10", "-p", "alternate")
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("alternate profile error = %v, want UNSUPPORTED", err)
	}

	err = env.run("tile", "-W", "1e9", "-H", "1e9")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("oversized template error = %v, want INVALID_INPUT", err)
	}
}

func TestMissingConfig(t *testing.T) {
	env := newTestEnv(t)
	env.config = filepath.Join(env.dir, "missing.toml")

	err := env.run("tile", "-W", "10", "-H", "10")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestCacheCommands(t *testing.T) {
	env := newTestEnv(t)
	cacheDir := filepath.Join(env.dir, "cache")

	if err := env.run("cache", "path"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(env.out.String()); got != cacheDir {
		t.Errorf("cache path = %q, want %q", got, cacheDir)
	}

	if err := env.run("generate", "-W", "2", "-H", "2", "-o", env.dir); err != nil {
		t.Fatal(err)
	}
	entries, _ := filepath.Glob(filepath.Join(cacheDir, "??", "*.json"))
	if len(entries) == 0 {
		t.Fatal("generate should populate the cache")
	}

	if err := env.run("cache", "clear"); err != nil {
		t.Fatal(err)
	}
	entries, _ = filepath.Glob(filepath.Join(cacheDir, "??", "*.json"))
	if len(entries) != 0 {
		t.Errorf("cache clear left %d entries", len(entries))
	}
}

func TestCompletion(t *testing.T) {
	env := newTestEnv(t)
	if err := env.run("completion", "bash"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.out.String(), "shadowboard") {
		t.Error("bash completion should mention the command name")
	}
}

func TestNewCache(t *testing.T) {
	c := New(io.Discard, LogInfo)
	ctx := context.Background()

	cfg := config.Default()
	cfg.Cache.Dir = t.TempDir()

	store, err := c.newCache(ctx, cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*cache.FileCache); !ok {
		t.Errorf("file backend = %T, want *cache.FileCache", store)
	}

	store, _ = c.newCache(ctx, cfg, true)
	if _, ok := store.(cache.NullCache); !ok {
		t.Errorf("--no-cache = %T, want cache.NullCache", store)
	}

	cfg.Cache.Backend = config.CacheNone
	store, _ = c.newCache(ctx, cfg, false)
	if _, ok := store.(cache.NullCache); !ok {
		t.Errorf("none backend = %T, want cache.NullCache", store)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{pipeline.FormatPNG}},
		{"pdf", []string{pipeline.FormatPDF}},
		{"png, html ,", []string{pipeline.FormatPNG, pipeline.FormatHTML}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestArtifactName(t *testing.T) {
	tests := map[string]string{
		pipeline.FormatPNG:       "base.png",
		pipeline.FormatHTML:      "base-print.html",
		pipeline.FormatPDF:       "base.pdf",
		pipeline.FormatTiledHTML: "base-tiled.html",
		pipeline.FormatTiledPDF:  "base-tiled.pdf",
	}
	for format, want := range tests {
		if got := artifactName("base", format); got != want {
			t.Errorf("artifactName(%q) = %q, want %q", format, got, want)
		}
	}
}
