package render

import (
	"bufio"
	"fmt"
	"image"
	"io"
)

// EncodePPM writes img as a binary PPM (P6), the format the clock itself
// dumps for screenshots, so mirror and device captures can be diffed.
func EncodePPM(w io.Writer, img image.Image) error {
	if img == nil {
		return fmt.Errorf("ppm: no image")
	}
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}

	rgba, fast := img.(*image.RGBA)
	row := make([]byte, 0, bounds.Dx()*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row = row[:0]
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if fast {
				p := rgba.RGBAAt(x, y)
				row = append(row, p.R, p.G, p.B)
				continue
			}
			r, g, b, _ := img.At(x, y).RGBA()
			row = append(row, uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}
