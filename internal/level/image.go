package level

import (
	"fmt"
	"image"
	_ "image/png" // level images are usually png

	"github.com/Garsondee/tuer/internal/game"
	_ "golang.org/x/image/bmp"  // older level editors export bmp
	_ "golang.org/x/image/tiff" // lossless alternative some editors default to
)

// DecodePixmapImage reads a 256x256 level image in any registered format.
// Pixel (x,y) of the image is tile (x,z).
func DecodePixmapImage(img image.Image) (*game.Pixmap, error) {
	b := img.Bounds()
	if b.Dx() != game.MapEdgeSize || b.Dy() != game.MapEdgeSize {
		return nil, fmt.Errorf("%w: level image is %dx%d, want %dx%d",
			ErrCorruptLevel, b.Dx(), b.Dy(), game.MapEdgeSize, game.MapEdgeSize)
	}
	var p game.Pixmap
	for z := 0; z < game.MapEdgeSize; z++ {
		for x := 0; x < game.MapEdgeSize; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+z).RGBA()
			p.Set(x, z, uint8(r>>8), uint8(g>>8), uint8(bl>>8)) // #nosec G115 -- 16-bit channels
		}
	}
	return &p, nil
}

// PixmapImage renders a pixmap back into an image, one pixel per tile.
func PixmapImage(p *game.Pixmap) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, game.MapEdgeSize, game.MapEdgeSize))
	for z := 0; z < game.MapEdgeSize; z++ {
		for x := 0; x < game.MapEdgeSize; x++ {
			r, g, b := p.RGB(x, z)
			i := img.PixOffset(x, z)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, 0xFF
		}
	}
	return img
}
