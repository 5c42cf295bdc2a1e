// Package banner renders short words as large block art using half-block characters.
package banner

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	faceOnce   sync.Once
	loadedFace font.Face
)

// face lazily parses the embedded Go Bold font.
func face() font.Face {
	faceOnce.Do(func() {
		fnt, err := opentype.Parse(gobold.TTF)
		if err != nil {
			return
		}
		f, err := opentype.NewFace(fnt, &opentype.FaceOptions{
			Size: 64,
			DPI:  72,
		})
		if err != nil {
			return
		}
		loadedFace = f
	})
	return loadedFace
}

// IsAvailable returns true if the font could be loaded.
func IsAvailable() bool {
	return face() != nil
}

// Render draws text using half-block characters (▀▄█).
// cols and rows define the output size in terminal cells.
func Render(text string, cols, rows int) string {
	f := face()
	if text == "" || f == nil || cols <= 0 || rows <= 0 {
		return ""
	}

	bounds, _ := font.BoundString(f, text)
	textWidth := (bounds.Max.X - bounds.Min.X).Ceil()
	textHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()

	padding := 2
	srcWidth := textWidth + padding*2
	srcHeight := textHeight + padding*2

	srcImg := image.NewGray(image.Rect(0, 0, srcWidth, srcHeight))
	draw.Draw(srcImg, srcImg.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	// Shift so the tight bounds land inside the padding.
	x := padding - bounds.Min.X.Floor()
	y := padding - bounds.Min.Y.Floor()

	d := &font.Drawer{
		Dst:  srcImg,
		Src:  image.White,
		Face: f,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)

	// rows*2 because each cell holds two vertical pixels
	scaled := scaleDown(srcImg, cols, rows*2)
	return toHalfBlocks(scaled, cols, rows)
}

// scaleDown scales a grayscale image using area averaging
func scaleDown(src *image.Gray, dstWidth, dstHeight int) *image.Gray {
	srcWidth := src.Bounds().Max.X
	srcHeight := src.Bounds().Max.Y

	dst := image.NewGray(image.Rect(0, 0, dstWidth, dstHeight))

	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for dy := 0; dy < dstHeight; dy++ {
		for dx := 0; dx < dstWidth; dx++ {
			sx1 := int(float64(dx) * xRatio)
			sy1 := int(float64(dy) * yRatio)
			sx2 := max(int(float64(dx+1)*xRatio), sx1+1)
			sy2 := max(int(float64(dy+1)*yRatio), sy1+1)
			sx2 = min(sx2, srcWidth)
			sy2 = min(sy2, srcHeight)

			var sum, count int
			for sy := sy1; sy < sy2; sy++ {
				for sx := sx1; sx < sx2; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					count++
				}
			}
			if count > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / count)})
			}
		}
	}

	return dst
}

const threshold = uint8(60)

// toHalfBlocks converts a grayscale image to half-block art
func toHalfBlocks(img *image.Gray, cols, rows int) string {
	var b strings.Builder

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			topOn := brightness(img, col, row*2) > threshold
			bottomOn := brightness(img, col, row*2+1) > threshold

			switch {
			case topOn && bottomOn:
				b.WriteRune('█')
			case topOn:
				b.WriteRune('▀')
			case bottomOn:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		if row < rows-1 {
			b.WriteRune('\n')
		}
	}

	return b.String()
}

func brightness(img *image.Gray, x, y int) uint8 {
	if x < 0 || y < 0 || x >= img.Bounds().Max.X || y >= img.Bounds().Max.Y {
		return 0
	}
	return img.GrayAt(x, y).Y
}

type cacheKey struct {
	text string
	rows int
}

type cacheEntry struct {
	cols int
	art  string
}

var (
	cacheMu sync.Mutex
	cache   = make(map[cacheKey]cacheEntry)
)

// GetCached returns a cached rendering or renders a new one. One entry is
// kept per (text, rows); a different width replaces it, so resizing the
// terminal does not grow the cache.
func GetCached(text string, cols, rows int) string {
	if !IsAvailable() {
		return ""
	}

	key := cacheKey{text: text, rows: rows}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if e, ok := cache[key]; ok && e.cols == cols {
		return e.art
	}

	rendered := Render(text, cols, rows)
	cache[key] = cacheEntry{cols: cols, art: rendered}
	return rendered
}
