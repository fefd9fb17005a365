package windfield

import (
	"fmt"
	"image"

	"github.com/flywave/go-cog"
)

// WriteGeoTIFF writes one channel of the texture as an LZW compressed
// cloud-optimized GeoTIFF georeferenced in EPSG:4326.
func (t *FieldTexture) WriteGeoTIFF(path string, channel int) error {
	if channel < 0 || channel >= TexelChannels {
		return fmt.Errorf("windfield: channel %d out of range", channel)
	}
	if t.Data == nil {
		return fmt.Errorf("windfield: texture for hour %d was released", t.Hour)
	}

	tiledata := t.Channel(channel)
	rect := image.Rect(0, 0, t.Width, t.Height)
	si := [2]uint32{uint32(t.Width), uint32(t.Height)}

	src := cog.NewSource(tiledata, &rect, cog.CTLZW)

	return cog.WriteTile(path, src, t.georef.GetBBox(), t.georef.GetSrs(), si, nil)
}
