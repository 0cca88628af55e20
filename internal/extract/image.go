package extract

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"

	"github.com/eastfarm/knowledge-guide/pkg/logger"
)

// InsufficientOCR is returned when no OCR candidate clears the usefulness
// threshold; returning this beats silently returning garbage.
const InsufficientOCR = "[OCR produced insufficient text. Manual processing recommended.]"

// minUsefulOCRLength is the trimmed length a candidate must exceed to count
// as usable recognition output.
const minUsefulOCRLength = 20

// OCRExtractor recognizes text in images by invoking an external OCR engine
// under several preprocessing variants and language models, then keeping the
// longest candidate that clears the usefulness threshold.
type OCRExtractor struct {
	Binary    string   // engine executable, e.g. "tesseract"
	Languages []string // language identifiers tried in order; rejected ones are skipped
	log       *logger.Logger
}

// Extract decodes the image, renders the preprocessing variants to temporary
// files, runs the engine over each variant/language combination and selects
// the best candidate.
func (e *OCRExtractor) Extract(ctx context.Context, path string) Result {
	f, err := os.Open(path)
	if err != nil {
		return Result{Text: failDiag("OCR", err), Method: "ocr"}
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return Result{Text: failDiag("OCR", err), Method: "ocr"}
	}

	// Binarization variants: a permissive threshold, an upsampled sharper
	// one for small scans, and an aggressive one for presentation slides.
	variants := []image.Image{
		binarize(grayscale(img), 120),
		binarize(upscale(grayscale(img), 1.5), 150),
		binarize(grayscale(img), 180),
	}

	binary := e.Binary
	if binary == "" {
		binary = "tesseract"
	}
	languages := e.Languages
	if len(languages) == 0 {
		languages = []string{"eng"}
	}

	var candidates []string
	for _, variant := range variants {
		tmp, err := writeTempPNG(variant)
		if err != nil {
			continue
		}
		for _, lang := range languages {
			out, err := runOCR(ctx, binary, tmp, lang)
			if err != nil {
				// Unsupported language packs fail here; skip them.
				if e.log != nil {
					e.log.Debugf("ocr run skipped (lang=%s): %v", lang, err)
				}
				continue
			}
			candidates = append(candidates, out)
		}
		os.Remove(tmp)
	}

	if text, ok := selectCandidate(candidates); ok {
		if e.log != nil {
			e.log.Debugf("ocr output preview: %q", preview(text, 500))
		}
		return Result{Text: text, Method: "ocr"}
	}
	return Result{Text: InsufficientOCR, Method: "ocr"}
}

// selectCandidate returns the longest candidate whose trimmed length exceeds
// the usefulness threshold, or false when none qualifies.
func selectCandidate(candidates []string) (string, bool) {
	best := ""
	found := false
	for _, c := range candidates {
		if len(strings.TrimSpace(c)) <= minUsefulOCRLength {
			continue
		}
		if !found || len(c) > len(best) {
			best = c
			found = true
		}
	}
	return best, found
}

func runOCR(ctx context.Context, binary, imagePath, lang string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, imagePath, "stdout", "-l", lang)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("run %s: %w", binary, err)
	}
	return string(out), nil
}

func writeTempPNG(img image.Image) (string, error) {
	path := filepath.Join(os.TempDir(), "kg-ocr-"+uuid.New().String()+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func grayscale(src image.Image) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	xdraw.Draw(dst, bounds, src, bounds.Min, xdraw.Src)
	return dst
}

// binarize maps every pixel below the threshold to black and the rest to white.
func binarize(src *image.Gray, threshold uint8) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if src.GrayAt(x, y).Y < threshold {
				dst.SetGray(x, y, color.Gray{Y: 0})
			} else {
				dst.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return dst
}

func upscale(src *image.Gray, factor float64) *image.Gray {
	bounds := src.Bounds()
	w := int(float64(bounds.Dx()) * factor)
	h := int(float64(bounds.Dy()) * factor)
	dst := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Src, nil)
	return dst
}

func preview(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
