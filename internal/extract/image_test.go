package extract

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSelectCandidate(t *testing.T) {
	cases := []struct {
		name       string
		candidates []string
		want       string
		ok         bool
	}{
		{"empty", nil, "", false},
		{"all below threshold", []string{"short", "  padded but still short  "}, "", false},
		{"single qualifying", []string{"this candidate is clearly long enough"}, "this candidate is clearly long enough", true},
		{
			"longest wins",
			[]string{
				"a qualifying candidate of some length",
				"a qualifying candidate of considerably greater length than the first",
			},
			"a qualifying candidate of considerably greater length than the first",
			true,
		},
		{
			"whitespace padding does not qualify",
			[]string{"ok                                          "},
			"", false,
		},
	}

	for _, tc := range cases {
		got, ok := selectCandidate(tc.candidates)
		if ok != tc.ok || got != tc.want {
			t.Errorf("%s: selectCandidate() = (%q, %v), want (%q, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestOCRExtractMissingEngine(t *testing.T) {
	// A decodable image with an engine that cannot be executed must degrade
	// to the fixed insufficient-text diagnostic, not an error.
	path := filepath.Join(t.TempDir(), "scan.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create image: %v", err)
	}
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 32)})
		}
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode image: %v", err)
	}
	f.Close()

	e := &OCRExtractor{Binary: "definitely-not-an-ocr-engine", Languages: []string{"eng"}}
	res := e.Extract(context.Background(), path)
	if res.Text != InsufficientOCR {
		t.Errorf("Text = %q, want %q", res.Text, InsufficientOCR)
	}
	if res.Method != "ocr" {
		t.Errorf("Method = %q, want %q", res.Method, "ocr")
	}
}

func TestOCRExtractUndecodableFile(t *testing.T) {
	path := writeTestFile(t, "not-an-image.png", "just text bytes")

	res := (&OCRExtractor{}).Extract(context.Background(), path)
	if !strings.Contains(res.Text, "extraction failed") {
		t.Errorf("expected diagnostic, got %q", res.Text)
	}
}

func TestBinarize(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(0, 0, color.Gray{Y: 40})
	src.SetGray(1, 0, color.Gray{Y: 200})

	dst := binarize(src, 120)
	if dst.GrayAt(0, 0).Y != 0 {
		t.Errorf("dark pixel = %d, want 0", dst.GrayAt(0, 0).Y)
	}
	if dst.GrayAt(1, 0).Y != 255 {
		t.Errorf("light pixel = %d, want 255", dst.GrayAt(1, 0).Y)
	}
}

func TestUpscale(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 4))
	dst := upscale(src, 1.5)
	if dst.Bounds().Dx() != 15 || dst.Bounds().Dy() != 6 {
		t.Errorf("upscaled bounds = %v, want 15x6", dst.Bounds())
	}
}
