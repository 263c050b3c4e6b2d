package fuzzycover

import (
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"path/filepath"
)

var grays = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}()

// SaveAnimatedGIF writes one grayscale frame per Z slice (k = 0..Nz-1).
// Membership 1 is white; gamma < 1 brightens. delay is in 100ths of a second.
func (v *Volume) SaveAnimatedGIF(path string, delay int, gamma float64) error {
	out := &gif.GIF{
		Image: make([]*image.Paletted, 0, v.Nz),
		Delay: make([]int, 0, v.Nz),
	}
	toByte := func(x float64) uint8 {
		if x <= 0 {
			return 0
		}
		if x > 1 {
			x = 1
		}
		if gamma > 0 && gamma != 1 {
			x = math.Pow(x, 1/gamma)
		}
		return uint8(math.Round(x * 255))
	}
	for k := 0; k < v.Nz; k++ {
		img := image.NewPaletted(image.Rect(0, 0, v.Nx, v.Ny), grays)
		// flip Y so up is up
		for j := 0; j < v.Ny; j++ {
			row := (v.Ny - 1 - j) * img.Stride
			for i := 0; i < v.Nx; i++ {
				img.Pix[row+i] = toByte(v.At(i, j, k))
			}
		}
		out.Image = append(out.Image, img)
		out.Delay = append(out.Delay, delay)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, out)
}
