package chart

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// canvas is a white RGBA image with helpers for the heatmaps, which go-chart
// cannot draw. Text uses the 7x13 bitmap face.
type canvas struct {
	img  *image.RGBA
	face font.Face
}

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	ink   = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	muted = color.RGBA{R: 110, G: 110, B: 110, A: 255}
	empty = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

func newCanvas(w, h int) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)
	return &canvas{img: img, face: basicfont.Face7x13}
}

func (c *canvas) fill(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

// outline draws a one pixel border just inside r.
func (c *canvas) outline(r image.Rectangle, col color.Color) {
	c.fill(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), col)
	c.fill(image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), col)
	c.fill(image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), col)
	c.fill(image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), col)
}

func (c *canvas) textWidth(s string) int {
	return font.MeasureString(c.face, s).Ceil()
}

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

// text draws s with its baseline at y. x is the left edge, center or right
// edge depending on a.
func (c *canvas) text(s string, x, y int, col color.Color, a align) {
	switch a {
	case alignCenter:
		x -= c.textWidth(s) / 2
	case alignRight:
		x -= c.textWidth(s)
	}
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: c.face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}

// textMiddle draws s vertically centered on y.
func (c *canvas) textMiddle(s string, x, y int, col color.Color, a align) {
	m := c.face.Metrics()
	c.text(s, x, y+(m.Ascent.Ceil()-m.Descent.Ceil())/2, col, a)
}

// fit shortens s with a trailing ".." until it is at most width pixels wide.
func (c *canvas) fit(s string, width int) string {
	if c.textWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && c.textWidth(string(r)+"..") > width {
		r = r[:len(r)-1]
	}
	if len(r) == 0 {
		return ""
	}
	return string(r) + ".."
}

// colormap maps [0, 1] to a color by linear interpolation between stops.
type colormap []colorStop

type colorStop struct {
	at float64
	c  color.RGBA
}

var (
	coolwarm = colormap{
		{0, color.RGBA{R: 59, G: 76, B: 192, A: 255}},
		{0.5, color.RGBA{R: 221, G: 221, B: 221, A: 255}},
		{1, color.RGBA{R: 180, G: 4, B: 38, A: 255}},
	}
	viridis = colormap{
		{0, color.RGBA{R: 68, G: 1, B: 84, A: 255}},
		{0.25, color.RGBA{R: 59, G: 82, B: 139, A: 255}},
		{0.5, color.RGBA{R: 33, G: 145, B: 140, A: 255}},
		{0.75, color.RGBA{R: 94, G: 201, B: 98, A: 255}},
		{1, color.RGBA{R: 253, G: 231, B: 37, A: 255}},
	}
)

func (m colormap) at(v float64) color.RGBA {
	if math.IsNaN(v) {
		return empty
	}
	v = math.Max(0, math.Min(1, v))
	for i := 1; i < len(m); i++ {
		if v <= m[i].at {
			lo, hi := m[i-1], m[i]
			f := (v - lo.at) / (hi.at - lo.at)
			return color.RGBA{
				R: lerp8(lo.c.R, hi.c.R, f),
				G: lerp8(lo.c.G, hi.c.G, f),
				B: lerp8(lo.c.B, hi.c.B, f),
				A: 255,
			}
		}
	}
	return m[len(m)-1].c
}

func lerp8(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + f*(float64(b)-float64(a))))
}

// luminance returns the perceived brightness of col in [0, 1], used to pick
// a readable annotation color.
func luminance(col color.RGBA) float64 {
	return (0.299*float64(col.R) + 0.587*float64(col.G) + 0.114*float64(col.B)) / 255
}

// cellRect returns the rectangle of cell (row, col) in an n-row, m-column
// grid laid over area. Row 0 is the top row.
func cellRect(area image.Rectangle, row, col, rows, cols int) image.Rectangle {
	w, h := area.Dx(), area.Dy()
	return image.Rect(
		area.Min.X+col*w/cols,
		area.Min.Y+row*h/rows,
		area.Min.X+(col+1)*w/cols,
		area.Min.Y+(row+1)*h/rows,
	)
}

// colorbar draws a vertical gradient for cmap with lo at the bottom and hi
// at the top, labelled at both ends and the middle.
func (c *canvas) colorbar(area image.Rectangle, cmap colormap, lo, hi float64) {
	h := area.Dy()
	for y := 0; y < h; y++ {
		f := 1 - float64(y)/float64(max(h-1, 1))
		c.fill(image.Rect(area.Min.X, area.Min.Y+y, area.Max.X, area.Min.Y+y+1), cmap.at(f))
	}
	c.outline(area, muted)

	x := area.Max.X + 4
	c.textMiddle(formatTick(hi), x, area.Min.Y, ink, alignLeft)
	c.textMiddle(formatTick((lo+hi)/2), x, area.Min.Y+h/2, ink, alignLeft)
	c.textMiddle(formatTick(lo), x, area.Max.Y-1, ink, alignLeft)
}
