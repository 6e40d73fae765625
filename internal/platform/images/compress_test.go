package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 80, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompress_CapsLargerDimension(t *testing.T) {
	data := encodePNG(t, 400, 200)

	out, err := Compress(data, 100, 80)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestCompress_PortraitCapsHeight(t *testing.T) {
	data := encodePNG(t, 200, 400)

	out, err := Compress(data, 100, 80)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dy())
	assert.Equal(t, 50, img.Bounds().Dx())
}

func TestCompress_SmallImageKeepsSize(t *testing.T) {
	data := encodePNG(t, 60, 40)

	out, err := Compress(data, 100, 80)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	// se normaliza a jpeg pero sin reescalar
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 60, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())
}

func TestCompress_RejectsNonImage(t *testing.T) {
	_, err := Compress([]byte("definitely not an image"), 100, 80)
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestCompress_OutputAlwaysDecodable(t *testing.T) {
	data := encodePNG(t, 350, 350)

	out, err := Compress(data, 300, 10)
	require.NoError(t, err)

	_, _, err = image.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
}
