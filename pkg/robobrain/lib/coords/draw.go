// Copyright 2025 Antfly, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package coords

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/vector"
	_ "golang.org/x/image/webp"
)

// Style is how a shape is drawn.
type Style struct {
	Color color.RGBA
	// Radius of point markers.
	Radius float64
	// Width of outlines and polylines.
	Width float64
}

var (
	Red   = color.RGBA{R: 255, A: 255}
	Green = color.RGBA{G: 255, A: 255}
	Blue  = color.RGBA{B: 255, A: 255}

	// PointStyle marks pointing answers.
	PointStyle = Style{Color: Red, Radius: 10}
	// BoxStyle outlines affordance and grounding boxes.
	BoxStyle = Style{Color: Green, Width: 2}
	// TrajectoryStyle draws waypoints as a polyline ending in a marker.
	TrajectoryStyle = Style{Color: Blue, Radius: 7, Width: 2}
	// MarkerStyle is the single dot of the interactive client.
	MarkerStyle = Style{Color: Green, Radius: 15}
)

// circleSegments is the polygon resolution of filled circles.
const circleSegments = 64

// LoadImage decodes path into a drawable copy.
func LoadImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst, nil
}

// Save encodes img by the extension of path (JPEG for .jpg/.jpeg, PNG otherwise).
func Save(img image.Image, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	default:
		err = png.Encode(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// fill rasterizes one closed polygon given in image coordinates.
func fill(img draw.Image, poly []Point, c color.RGBA) {
	if len(poly) < 3 {
		return
	}
	b := img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	ox, oy := float64(b.Min.X), float64(b.Min.Y)
	z.MoveTo(float32(poly[0].X-ox), float32(poly[0].Y-oy))
	for _, p := range poly[1:] {
		z.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	z.ClosePath()
	z.Draw(img, b, image.NewUniform(c), image.Point{})
}

// FillCircle draws a filled disc.
func FillCircle(img draw.Image, center Point, radius float64, c color.RGBA) {
	poly := make([]Point, circleSegments)
	for i := range poly {
		a := 2 * math.Pi * float64(i) / circleSegments
		poly[i] = Point{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
	}
	fill(img, poly, c)
}

// StrokeLine draws a segment of the given width.
func StrokeLine(img draw.Image, from, to Point, width float64, c color.RGBA) {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		FillCircle(img, from, width/2, c)
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	fill(img, []Point{
		{X: from.X + nx, Y: from.Y + ny},
		{X: to.X + nx, Y: to.Y + ny},
		{X: to.X - nx, Y: to.Y - ny},
		{X: from.X - nx, Y: from.Y - ny},
	}, c)
}

// DrawPoints marks every point with a filled disc.
func DrawPoints(img draw.Image, points []Point, style Style) {
	for _, p := range points {
		FillCircle(img, p, style.Radius, style.Color)
	}
}

// DrawBoxes outlines every box.
func DrawBoxes(img draw.Image, boxes []Box, style Style) {
	half := style.Width / 2
	for _, b := range boxes {
		corners := []Point{{X: b.X1, Y: b.Y1}, {X: b.X2, Y: b.Y1}, {X: b.X2, Y: b.Y2}, {X: b.X1, Y: b.Y2}}
		for i, p := range corners {
			q := corners[(i+1)%len(corners)]
			// Extend each edge by half the width so corners are square.
			from, to := extend(p, q, half), extend(q, p, half)
			StrokeLine(img, from, to, style.Width, style.Color)
		}
	}
}

func extend(p, q Point, by float64) Point {
	dx, dy := p.X-q.X, p.Y-q.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return p
	}
	return Point{X: p.X + dx/l*by, Y: p.Y + dy/l*by}
}

// DrawTrajectory joins the waypoints and marks the last one.
func DrawTrajectory(img draw.Image, points []Point, style Style) {
	if len(points) == 0 {
		return
	}
	for i := 1; i < len(points); i++ {
		StrokeLine(img, points[i-1], points[i], style.Width, style.Color)
	}
	FillCircle(img, points[len(points)-1], style.Radius, style.Color)
}
