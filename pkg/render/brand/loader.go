package brand

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"image"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/shadowboard/shadowboard/pkg/httputil"
)

// ErrNoLogo is returned by the loader for an empty logo reference.
var ErrNoLogo = stderrors.New("no logo configured")

// Loader loads a logo asset. Load must return once ctx is done.
type Loader interface {
	Load(ctx context.Context) (image.Image, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (image.Image, error)

// Load calls f(ctx).
func (f LoaderFunc) Load(ctx context.Context) (image.Image, error) { return f(ctx) }

// NewLoader returns a loader for ref: an http(s) URL is fetched, anything
// else is opened as a local file. An empty ref always fails with ErrNoLogo.
func NewLoader(ref string) Loader {
	switch {
	case ref == "":
		return LoaderFunc(func(context.Context) (image.Image, error) { return nil, ErrNoLogo })
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return &httpLoader{url: ref, client: &http.Client{Timeout: 10 * time.Second}}
	default:
		return fileLoader(ref)
	}
}

type fileLoader string

func (f fileLoader) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := imaging.Open(string(f), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open logo %s: %w", string(f), err)
	}
	return img, nil
}

type httpLoader struct {
	url    string
	client *http.Client
}

func (h *httpLoader) Load(ctx context.Context) (image.Image, error) {
	body, err := httputil.Fetch(ctx, h.client, h.url)
	if err != nil {
		return nil, fmt.Errorf("fetch logo: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(body), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode logo %s: %w", h.url, err)
	}
	return img, nil
}
