package render

import (
	"errors"
	"sync"
	"testing"

	"github.com/shadowboard/shadowboard/pkg/dims"
	sberrors "github.com/shadowboard/shadowboard/pkg/errors"
)

func TestSurfaceSize(t *testing.T) {
	tests := []struct {
		d     dims.Dimensions
		wantW int
		wantH int
	}{
		{dims.Dimensions{Width: 5, Height: 3}, 504, 360},
		{dims.Dimensions{Width: 10, Height: 10}, 864, 864},
		{dims.Dimensions{Width: 2.5, Height: 1.25}, 324, 234},
		{dims.Dimensions{Width: 1.01, Height: 1}, 216, 216},
	}
	for _, tt := range tests {
		w, h := SurfaceSize(tt.d)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("SurfaceSize(%+v) = (%d, %d), want (%d, %d)", tt.d, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestNewSurface(t *testing.T) {
	s := NewSurface(dims.Dimensions{Width: 5, Height: 3}, 7)
	if s.Width() != 504 || s.Height() != 360 {
		t.Errorf("surface = %dx%d, want 504x360", s.Width(), s.Height())
	}
	if s.Generation != 7 {
		t.Errorf("Generation = %d, want 7", s.Generation)
	}
	x, y, w, h := s.Content()
	if x != 72 || y != 72 || w != 360 || h != 216 {
		t.Errorf("Content() = (%v, %v, %v, %v), want (72, 72, 360, 216)", x, y, w, h)
	}
	if s.Context() == nil {
		t.Error("Context() returned nil")
	}
}

func TestCanvasGenerations(t *testing.T) {
	c := NewCanvas()
	if c.Generation() != 0 || c.Current() != nil {
		t.Fatal("new canvas should be empty at generation 0")
	}

	s1, err := c.Next(dims.Dimensions{Width: 2, Height: 2})
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if s1.Generation != 1 || c.Current() != s1 {
		t.Errorf("first surface generation = %d, want 1", s1.Generation)
	}

	s2, _ := c.Next(dims.Dimensions{Width: 3, Height: 2})
	if s2.Generation != 2 {
		t.Errorf("second surface generation = %d, want 2", s2.Generation)
	}

	applied, err := c.Apply(s1.Generation, func(*Surface) error {
		t.Error("stale apply should not run")
		return nil
	})
	if applied || err != nil {
		t.Errorf("Apply(stale) = (%v, %v), want (false, nil)", applied, err)
	}

	ran := false
	applied, err = c.Apply(s2.Generation, func(s *Surface) error {
		ran = s == s2
		return nil
	})
	if !applied || err != nil || !ran {
		t.Errorf("Apply(current) = (%v, %v) ran=%v, want (true, nil) ran=true", applied, err, ran)
	}
}

func TestCanvasApplyPropagatesError(t *testing.T) {
	c := NewCanvas()
	s, _ := c.Next(dims.Dimensions{Width: 1, Height: 1})
	want := errors.New("draw failed")
	applied, err := c.Apply(s.Generation, func(*Surface) error { return want })
	if !applied || !errors.Is(err, want) {
		t.Errorf("Apply() = (%v, %v), want (true, %v)", applied, err, want)
	}
}

func TestCanvasInvalidDimensions(t *testing.T) {
	c := NewCanvas()
	s, _ := c.Next(dims.Dimensions{Width: 4, Height: 4})

	_, err := c.Next(dims.Dimensions{Width: 0, Height: 4})
	if !sberrors.Is(err, sberrors.ErrCodeEmptyTemplate) {
		t.Errorf("Next(invalid) error = %v, want EMPTY_TEMPLATE", err)
	}
	if c.Current() != nil {
		t.Error("invalid dimensions should clear the current surface")
	}
	if applied, _ := c.Apply(s.Generation, func(*Surface) error { return nil }); applied {
		t.Error("overlay for the previous generation should be discarded")
	}
	if c.Snapshot() != nil {
		t.Error("Snapshot() should be nil with no template")
	}
}

func TestCanvasOversizedDimensions(t *testing.T) {
	c := NewCanvas()
	s, _ := c.Next(dims.Dimensions{Width: 4, Height: 4})

	_, err := c.Next(dims.Dimensions{Width: 1e9, Height: 1})
	if !sberrors.Is(err, sberrors.ErrCodeInvalidInput) {
		t.Errorf("Next(oversized) error = %v, want INVALID_INPUT", err)
	}
	if c.Current() != nil {
		t.Error("oversized dimensions should clear the current surface")
	}
	if c.Generation() != s.Generation+1 {
		t.Errorf("Generation() = %d, want %d", c.Generation(), s.Generation+1)
	}
}

func TestCanvasSnapshotIsCopy(t *testing.T) {
	c := NewCanvas()
	s, _ := c.Next(dims.Dimensions{Width: 1, Height: 1})

	snap := c.Snapshot()
	if snap.Bounds() != s.Image.Bounds() {
		t.Fatalf("snapshot bounds = %v, want %v", snap.Bounds(), s.Image.Bounds())
	}
	s.Image.Pix[0] = 0xff
	if snap.Pix[0] == 0xff {
		t.Error("snapshot shares pixels with the surface")
	}
}

func TestCanvasConcurrentApply(t *testing.T) {
	c := NewCanvas()
	s, _ := c.Next(dims.Dimensions{Width: 1, Height: 1})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Apply(s.Generation, func(s *Surface) error {
				s.Image.Pix[0]++
				return nil
			})
		}()
	}
	wg.Wait()
	if s.Image.Pix[0] != 8 {
		t.Errorf("Pix[0] = %d, want 8", s.Image.Pix[0])
	}
}
