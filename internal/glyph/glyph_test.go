package glyph

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/opd-ai/go-grapher/internal/canvas"
)

// inkCount counts pixels that differ from the white background.
func inkCount(img image.Image) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r != 0xffff || g != 0xffff || bl != 0xffff {
				n++
			}
		}
	}
	return n
}

func whiteRGBA(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func TestBasicDrawText(t *testing.T) {
	img := whiteRGBA(60, 20)
	r := NewBasic()
	r.DrawText(img, image.Pt(2, 14), 1, "X")

	if inkCount(img) == 0 {
		t.Error("expected glyph pixels to be drawn")
	}
}

func TestDrawTextEmptyString(t *testing.T) {
	img := whiteRGBA(20, 20)
	NewBasic().DrawText(img, image.Pt(2, 14), 1, "")
	if n := inkCount(img); n != 0 {
		t.Errorf("empty string drew %d pixels", n)
	}
}

func TestDrawTextScaled(t *testing.T) {
	small := whiteRGBA(80, 60)
	large := whiteRGBA(80, 60)
	r := NewBasic()

	r.DrawText(small, image.Pt(2, 14), 1, "7")
	r.DrawText(large, image.Pt(2, 40), 2, "7")

	ns, nl := inkCount(small), inkCount(large)
	if ns == 0 {
		t.Fatal("unscaled glyph drew nothing")
	}
	if nl != 4*ns {
		t.Errorf("scale 2 drew %d pixels, want %d (4x unscaled)", nl, 4*ns)
	}
}

func TestDrawTextClipsAtEdge(t *testing.T) {
	img := whiteRGBA(10, 10)
	// Mostly outside the image; must not panic.
	NewBasic().DrawText(img, image.Pt(7, 3), 3, "WWW")
	NewBasic().DrawText(img, image.Pt(-50, -50), 1, "W")
}

func TestDrawTextOnCanvas(t *testing.T) {
	c := canvas.New(40, 20)
	c.Clear(canvas.White)

	NewBasic().DrawText(c, image.Pt(2, 14), 1, "Y")

	if inkCount(c) == 0 {
		t.Error("expected glyph pixels on canvas")
	}
}

func TestSetColor(t *testing.T) {
	img := whiteRGBA(30, 20)
	r := NewBasic()
	r.SetColor(color.RGBA{R: 255, A: 255})
	r.DrawText(img, image.Pt(2, 14), 1, "H")

	found := false
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == (color.RGBA{R: 255, A: 255}) {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("expected fully red glyph pixels")
	}
}

func TestMeasure(t *testing.T) {
	r := NewBasic()

	got := r.Measure("abc", 1)
	if got.X != 21 {
		t.Errorf("width = %d, want 21", got.X)
	}
	if got.Y <= 0 {
		t.Errorf("height = %d, want positive", got.Y)
	}

	scaled := r.Measure("abc", 3)
	if scaled.X != 3*got.X || scaled.Y != 3*got.Y {
		t.Errorf("scaled = %v, want 3x %v", scaled, got)
	}
}

func TestNewGoMono(t *testing.T) {
	r, err := NewGoMono(0)
	if err != nil {
		t.Fatalf("NewGoMono: %v", err)
	}
	if r.Face() == nil {
		t.Fatal("expected face to be set")
	}

	img := whiteRGBA(60, 30)
	r.DrawText(img, image.Pt(2, 20), 1, "42")
	if inkCount(img) == 0 {
		t.Error("expected glyph pixels from Go Mono face")
	}
}

func TestNewFaceDefaultsColor(t *testing.T) {
	r := NewFace(NewBasic().Face(), nil)
	if r.color != color.Black {
		t.Errorf("color = %v, want black", r.color)
	}
}
