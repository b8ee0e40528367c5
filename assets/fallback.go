package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/errgroup"

	"faceless-pipeline/types"
)

type rgb struct{ r, g, b uint8 }

type gradient struct{ from, to rgb }

// scene-type palettes; unknown types fall through to "default"
var contentPatterns = map[string]gradient{
	"hook":    {rgb{255, 94, 77}, rgb{255, 154, 0}},
	"proof":   {rgb{67, 198, 172}, rgb{25, 22, 84}},
	"cta":     {rgb{255, 0, 132}, rgb{252, 176, 69}},
	"outro":   {rgb{29, 43, 100}, rgb{248, 205, 218}},
	"default": {rgb{142, 158, 255}, rgb{235, 142, 255}},
}

var gradientPool = []gradient{
	{rgb{255, 94, 77}, rgb{255, 154, 0}},
	{rgb{0, 176, 255}, rgb{0, 82, 212}},
	{rgb{67, 198, 172}, rgb{25, 22, 84}},
	{rgb{29, 43, 100}, rgb{248, 205, 218}},
	{rgb{44, 62, 80}, rgb{189, 195, 199}},
	{rgb{134, 194, 50}, rgb{49, 126, 51}},
}

// FallbackGenerator renders gradient cards for scenes that end up with no
// usable stock footage. Cards are cached on disk keyed by their inputs.
type FallbackGenerator struct {
	CacheDir string
	Width    int
	Height   int
}

func NewFallbackGenerator(cacheDir string, width, height int) *FallbackGenerator {
	if cacheDir == "" {
		cacheDir = ".cache/fallbacks"
	}
	if width == 0 {
		width = 1920
	}
	if height == 0 {
		height = 1080
	}
	return &FallbackGenerator{CacheDir: cacheDir, Width: width, Height: height}
}

// GenerateGradientCard renders (or reuses) a gradient card with a text
// label and returns its path.
func (g *FallbackGenerator) GenerateGradientCard(text, sceneType string, seed int) (string, error) {
	key := cacheKey(text, sceneType, g.Width, g.Height, seed)
	path := filepath.Join(g.CacheDir, key+".png")

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(g.CacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create fallback cache dir: %w", err)
	}

	grad, ok := contentPatterns[strings.ToLower(sceneType)]
	if !ok {
		if seed < 0 {
			seed = -seed
		}
		grad = gradientPool[seed%len(gradientPool)]
	}

	img := renderGradient(g.Width, g.Height, grad)
	if text != "" {
		drawLabel(img, text)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create fallback card: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode fallback card: %w", err)
	}

	log.Printf("[assets] generated gradient fallback: %s", path)
	return path, nil
}

// EnsureMinimum pads the asset list with generated cards until it holds
// requiredCount entries. Generation failures degrade to a solid card so
// the caller always gets a full set.
func (g *FallbackGenerator) EnsureMinimum(available []types.VisualAsset, requiredCount int, sceneType string) []types.VisualAsset {
	out := append([]types.VisualAsset{}, available...)
	if len(out) >= requiredCount {
		return out[:requiredCount]
	}

	for i := len(out); i < requiredCount; i++ {
		path, err := g.GenerateGradientCard(fmt.Sprintf("Visual %d", i+1), sceneType, i)
		if err != nil {
			log.Printf("[assets] ⚠️ gradient card failed: %v", err)
			if path, err = g.solidCard(); err != nil {
				log.Printf("[assets] ⚠️ solid card failed too: %v", err)
				path = g.emergencyCard()
			}
		}
		out = append(out, types.VisualAsset{
			Path:      path,
			Title:     fmt.Sprintf("Fallback Visual %d", i+1),
			Creator:   "System",
			License:   "cc0",
			Width:     g.Width,
			Height:    g.Height,
			AssetType: types.AssetImage,
		})
	}
	return out
}

// Pregenerate warms the cache for the given scene types concurrently.
func (g *FallbackGenerator) Pregenerate(sceneTypes []string) error {
	var eg errgroup.Group
	eg.SetLimit(4)
	for _, st := range sceneTypes {
		st := st
		for j := 0; j < 3; j++ {
			j := j
			eg.Go(func() error {
				_, err := g.GenerateGradientCard(titleCase(st), st, j)
				return err
			})
		}
	}
	return eg.Wait()
}

func (g *FallbackGenerator) solidCard() (string, error) {
	path := filepath.Join(g.CacheDir, fmt.Sprintf("solid_%dx%d.png", g.Width, g.Height))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(g.CacheDir, 0o755); err != nil {
		return "", err
	}
	return path, g.writeSolid(path)
}

// emergencyCard writes a solid card into the system temp dir when the
// configured cache dir is unusable. It always returns a path so callers
// keep their count guarantee; a write failure here surfaces later as a
// missing-clip validation error.
func (g *FallbackGenerator) emergencyCard() string {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("fallback_solid_%dx%d.png", g.Width, g.Height))
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if err := g.writeSolid(path); err != nil {
		log.Printf("[assets] ⚠️ temp solid card failed: %v", err)
	}
	return path
}

func (g *FallbackGenerator) writeSolid(path string) error {
	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	fill := color.RGBA{50, 50, 50, 255}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			img.SetRGBA(x, y, fill)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// renderGradient fills an image with a diagonal blend between two colors.
func renderGradient(width, height int, grad gradient) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	denom := float64(width + height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			ratio := float64(x+y) / denom
			img.SetRGBA(x, y, color.RGBA{
				R: lerp(grad.from.r, grad.to.r, ratio),
				G: lerp(grad.from.g, grad.to.g, ratio),
				B: lerp(grad.from.b, grad.to.b, ratio),
				A: 255,
			})
		}
	}
	return img
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}

// drawLabel centers the text on a dark band so it stays readable on any
// gradient.
func drawLabel(img *image.RGBA, text string) {
	bounds := img.Bounds()
	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()

	x := (bounds.Dx() - textWidth) / 2
	y := bounds.Dy() / 2

	pad := 20
	band := image.Rect(x-pad, y-face.Height-pad, x+textWidth+pad, y+pad)
	bandColor := color.RGBA{0, 0, 0, 180}
	for by := band.Min.Y; by < band.Max.Y; by++ {
		for bx := band.Min.X; bx < band.Max.X; bx++ {
			if image.Pt(bx, by).In(bounds) {
				base := img.RGBAAt(bx, by)
				img.SetRGBA(bx, by, blend(base, bandColor))
			}
		}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{255, 255, 255, 255}),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func blend(base, over color.RGBA) color.RGBA {
	a := float64(over.A) / 255
	return color.RGBA{
		R: uint8(float64(base.R)*(1-a) + float64(over.R)*a),
		G: uint8(float64(base.G)*(1-a) + float64(over.G)*a),
		B: uint8(float64(base.B)*(1-a) + float64(over.B)*a),
		A: 255,
	}
}

func cacheKey(text, sceneType string, width, height, seed int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s_%s_%dx%d_%d", text, sceneType, width, height, seed)))
	return hex.EncodeToString(h[:])[:16]
}

func titleCase(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
