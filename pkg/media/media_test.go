package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/chai2010/webp"
)

type countingFetcher struct {
	mu    sync.Mutex
	calls int
	data  []byte
	err   error
}

func (f *countingFetcher) Media(context.Context, string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.data, f.err
}

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.NRGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCacheReadsThrough(t *testing.T) {
	f := &countingFetcher{data: []byte("payload")}
	c := NewCache(t.TempDir(), f, nil)

	for i := 0; i < 3; i++ {
		data, err := c.Get(context.Background(), "/media/a/b.webp")
		if err != nil || string(data) != "payload" {
			t.Fatalf("Get: %v %q", err, data)
		}
	}
	if f.calls != 1 {
		t.Fatalf("expected one fetch, got %d", f.calls)
	}

	if err := c.Purge(); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if _, err := c.Get(context.Background(), "/media/a/b.webp"); err != nil {
		t.Fatal(err)
	}
	if f.calls != 2 {
		t.Fatalf("purge should force a refetch, got %d calls", f.calls)
	}
}

func TestCacheFetchError(t *testing.T) {
	want := errors.New("gone")
	c := NewCache(t.TempDir(), &countingFetcher{err: want}, nil)
	if _, err := c.Art(context.Background(), "/media/x", 4, 2); !errors.Is(err, want) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
}

func TestDecodePNGAndWebP(t *testing.T) {
	img := checker(6, 4)
	if _, err := Decode(pngBytes(t, img)); err != nil {
		t.Fatalf("png: %v", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: true}); err != nil {
		t.Fatalf("encode webp: %v", err)
	}
	if !isWebP(buf.Bytes()) {
		t.Fatalf("webp magic not detected")
	}
	got, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("webp: %v", err)
	}
	if got.Bounds().Dx() != 6 || got.Bounds().Dy() != 4 {
		t.Fatalf("unexpected bounds %v", got.Bounds())
	}

	if _, err := Decode([]byte("nope")); err == nil {
		t.Fatalf("expected an error for garbage")
	}
}

func TestRenderUsesTwoRowsPerLine(t *testing.T) {
	art := Render(checker(8, 8), 8, 4)
	lines := strings.Split(art, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if strings.Count(lines[0], halfBlock) != 8 {
		t.Fatalf("expected 8 cells per line, got %d", strings.Count(lines[0], halfBlock))
	}
	if Render(nil, 4, 4) != "" || Render(checker(2, 2), 0, 4) != "" {
		t.Fatalf("degenerate input should render nothing")
	}
}

func TestArt(t *testing.T) {
	c := NewCache(t.TempDir(), &countingFetcher{data: pngBytes(t, checker(4, 4))}, nil)
	art, err := c.Art(context.Background(), "/media/a/c.png", 4, 2)
	if err != nil {
		t.Fatalf("Art: %v", err)
	}
	if strings.Count(art, "\n") != 1 {
		t.Fatalf("expected two lines of art, got %q", art)
	}
}
