package service

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Preprocessing pipeline for scanned pages, applied before the primary OCR
// engine: grayscale, deskew by the dominant text angle, contrast stretch,
// light blur, adaptive local threshold and a small morphological close to
// reconnect broken glyph strokes.
func preprocessForOCR(src image.Image) image.Image {
	gray := toGray(imaging.Grayscale(src))

	if angle := estimateSkewAngle(gray); math.Abs(angle) > 0.3 && math.Abs(angle) < 20 {
		rotated := imaging.Rotate(gray, -angle, color.White)
		gray = toGray(rotated)
	}

	stretchContrast(gray)
	gray = toGray(imaging.Blur(gray, 0.6))
	bin := adaptiveThreshold(gray, 31, 9)
	return morphClose(bin)
}

func toGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	b := src.Bounds()
	g := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.Set(x, y, color.GrayModel.Convert(src.At(x, y)))
		}
	}
	return g
}

// estimateSkewAngle returns the dominant text angle in degrees, derived from
// the principal axis of the foreground (dark) pixel distribution. Text lines
// dominate the distribution, so the principal axis tracks their slope.
func estimateSkewAngle(g *image.Gray) float64 {
	b := g.Bounds()
	step := 1 + (b.Dx()*b.Dy())/(1<<20) // cap the sample at ~1M pixels

	var n, sumX, sumY float64
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			if g.GrayAt(x, y).Y < 128 {
				n++
				sumX += float64(x)
				sumY += float64(y)
			}
		}
	}
	if n < 100 {
		return 0
	}
	meanX, meanY := sumX/n, sumY/n

	var mu20, mu02, mu11 float64
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			if g.GrayAt(x, y).Y < 128 {
				dx, dy := float64(x)-meanX, float64(y)-meanY
				mu20 += dx * dx
				mu02 += dy * dy
				mu11 += dx * dy
			}
		}
	}
	if mu20 == mu02 && mu11 == 0 {
		return 0
	}

	angle := 0.5 * math.Atan2(2*mu11, mu20-mu02) * 180 / math.Pi
	if angle > 45 {
		angle -= 90
	} else if angle < -45 {
		angle += 90
	}
	return angle
}

// stretchContrast min-max normalizes the gray levels in place.
func stretchContrast(g *image.Gray) {
	lo, hi := uint8(255), uint8(0)
	for _, v := range g.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return
	}
	scale := 255.0 / float64(hi-lo)
	for i, v := range g.Pix {
		g.Pix[i] = uint8(float64(v-lo) * scale)
	}
}

// adaptiveThreshold binarizes against the local mean over a block x block
// neighborhood minus a constant bias, using a summed-area table.
func adaptiveThreshold(g *image.Gray, block, bias int) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	if w == 0 || h == 0 {
		return out
	}

	integral := make([]int64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			integral[(y+1)*(w+1)+x+1] = integral[y*(w+1)+x+1] + rowSum
		}
	}

	half := block / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := max(0, x-half), max(0, y-half)
			x1, y1 := min(w-1, x+half), min(h-1, y+half)
			count := int64((x1 - x0 + 1) * (y1 - y0 + 1))
			sum := integral[(y1+1)*(w+1)+x1+1] - integral[y0*(w+1)+x1+1] -
				integral[(y1+1)*(w+1)+x0] + integral[y0*(w+1)+x0]
			mean := sum / count

			v := uint8(0)
			if int64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y) > mean-int64(bias) {
				v = 255
			}
			out.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: v})
		}
	}
	return out
}

// morphClose runs a 3x3 close on the dark (ink) pixels: dilate then erode.
func morphClose(g *image.Gray) *image.Gray {
	dilated := morphApply(g, func(minV, _ uint8) uint8 { return minV })
	return morphApply(dilated, func(_, maxV uint8) uint8 { return maxV })
}

func morphApply(g *image.Gray, pick func(minV, maxV uint8) uint8) *image.Gray {
	b := g.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			minV, maxV := uint8(255), uint8(0)
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < b.Min.X || nx >= b.Max.X || ny < b.Min.Y || ny >= b.Max.Y {
						continue
					}
					v := g.GrayAt(nx, ny).Y
					if v < minV {
						minV = v
					}
					if v > maxV {
						maxV = v
					}
				}
			}
			out.SetGray(x, y, color.Gray{Y: pick(minV, maxV)})
		}
	}
	return out
}
