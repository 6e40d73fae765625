package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	// registrar decoders; el cliente sube jpeg/png/gif indistintamente
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

var (
	ErrNotAnImage = errors.New("input is not a decodable image")
)

const (
	DefaultMaxWidth = 1280
	DefaultQuality  = 80
)

// Compress decodifica data, reduce proporcionalmente para que la dimensión
// mayor no pase de maxWidth y re-encodea como JPEG con la calidad indicada.
// Si la imagen ya está dentro del límite igual se re-encodea (normaliza a
// JPEG, que es lo que espera el resto del pipeline de uploads).
//
// El caller decide qué hacer ante error; el patrón en handlers es
// best-effort: si Compress falla, se sube el archivo original tal cual.
func Compress(data []byte, maxWidth, quality int) ([]byte, error) {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	nw, nh := fitWithin(w, h, maxWidth)

	var out image.Image = src
	if nw != w || nh != h {
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin capea la dimensión mayor a max manteniendo proporción.
func fitWithin(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w >= h {
		nh := h * max / w
		if nh < 1 {
			nh = 1
		}
		return max, nh
	}
	nw := w * max / h
	if nw < 1 {
		nw = 1
	}
	return nw, max
}
