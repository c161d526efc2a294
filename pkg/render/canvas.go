package render

import (
	"image"
	"sync"

	"github.com/shadowboard/shadowboard/pkg/dims"
	"github.com/shadowboard/shadowboard/pkg/errors"
)

// Canvas holds the current surface and the render generation counter.
// It is safe for concurrent use.
type Canvas struct {
	mu      sync.Mutex
	gen     uint64
	current *Surface
}

// NewCanvas creates an empty canvas at generation 0.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// Next starts a new render generation and allocates its surface.
//
// Invalid dimensions still advance the generation, which clears the
// current surface and invalidates pending overlays, and return an
// EMPTY_TEMPLATE error. Oversized dimensions do the same with the
// INVALID_INPUT error from dims.CheckExtent.
func (c *Canvas) Next(d dims.Dimensions) (*Surface, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	if !d.Valid() {
		c.current = nil
		return nil, errors.New(errors.ErrCodeEmptyTemplate, "no template for %gx%g", d.Width, d.Height)
	}
	if err := dims.CheckExtent(d); err != nil {
		c.current = nil
		return nil, err
	}
	c.current = NewSurface(d, c.gen)
	return c.current, nil
}

// Generation returns the current render generation.
func (c *Canvas) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Current returns the current surface, or nil when no template is defined.
func (c *Canvas) Current() *Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Apply runs fn on the current surface if gen is still the current
// generation. It reports whether fn ran. A superseded generation is
// silently discarded.
func (c *Canvas) Apply(gen uint64, fn func(*Surface) error) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.current == nil {
		return false, nil
	}
	return true, fn(c.current)
}

// Snapshot returns a copy of the current surface pixels, or nil when no
// template is defined. Exports read snapshots so a late overlay cannot
// change an image that is being encoded.
func (c *Canvas) Snapshot() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	return c.current.Snapshot()
}
