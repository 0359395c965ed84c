// Package media reduz imagens enviadas pelo painel a um data URL JPEG que
// cabe num documento do banco (limite de 1 MiB por documento).
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrTooLarge          = errors.New("media: image too large")
	ErrUnsupportedFormat = errors.New("media: unsupported image format")
)

const (
	DefaultMaxWidth       = 1200
	DefaultQuality        = 70
	DefaultMaxOutputBytes = 900 << 10
	DefaultMaxInputBytes  = 10 << 20
	DefaultMaxPixels      = 40_000_000

	minQuality  = 30
	qualityStep = 10
	minWidth    = 200
)

type Options struct {
	MaxWidth       int
	Quality        int
	MaxOutputBytes int
	MaxInputBytes  int64
	// MaxPixels limita largura*altura declaradas no cabeçalho, antes de decodificar.
	MaxPixels int
}

func (o Options) withDefaults() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.MaxOutputBytes <= 0 {
		o.MaxOutputBytes = DefaultMaxOutputBytes
	}
	if o.MaxInputBytes <= 0 {
		o.MaxInputBytes = DefaultMaxInputBytes
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = DefaultMaxPixels
	}
	return o
}

type Result struct {
	DataURL     string `json:"dataUrl"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Bytes       int    `json:"bytes"`
	Quality     int    `json:"quality"`
	ContentType string `json:"contentType"`
	// SourceFormat é o formato detectado na entrada (jpeg, png, gif, webp).
	SourceFormat string `json:"sourceFormat"`
}

// Compress decodifica r, reduz para no máximo MaxWidth de largura e gera
// JPEG. Se o resultado passar de MaxOutputBytes, baixa a qualidade até 30 e
// depois a largura em passos de 25% até 200px; se ainda assim não couber,
// devolve ErrTooLarge. Imagens com mais de MaxPixels também dão ErrTooLarge,
// sem chegar a decodificar os pixels.
func Compress(r io.Reader, opts Options) (Result, error) {
	opts = opts.withDefaults()

	raw, err := io.ReadAll(io.LimitReader(r, opts.MaxInputBytes+1))
	if err != nil {
		return Result{}, fmt.Errorf("media: read: %w", err)
	}
	if int64(len(raw)) > opts.MaxInputBytes {
		return Result{}, fmt.Errorf("%w: input exceeds %d bytes", ErrTooLarge, opts.MaxInputBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Result{}, ErrUnsupportedFormat
		}
		return Result{}, fmt.Errorf("media: decode %s header: %w", format, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(opts.MaxPixels) {
		return Result{}, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, opts.MaxPixels)
	}

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Result{}, ErrUnsupportedFormat
		}
		return Result{}, fmt.Errorf("media: decode %s: %w", format, err)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Result{}, fmt.Errorf("media: empty %s image", format)
	}

	width := min(b.Dx(), opts.MaxWidth)
	start := opts.Quality
	var buf bytes.Buffer
	for {
		img := resize(src, width)
		for q := start; ; q = max(q-qualityStep, minQuality) {
			buf.Reset()
			if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
				return Result{}, fmt.Errorf("media: encode: %w", err)
			}
			if buf.Len() <= opts.MaxOutputBytes {
				return Result{
					DataURL:      "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
					Width:        img.Bounds().Dx(),
					Height:       img.Bounds().Dy(),
					Bytes:        buf.Len(),
					Quality:      q,
					ContentType:  "image/jpeg",
					SourceFormat: format,
				}, nil
			}
			if q <= minQuality {
				break
			}
		}
		if width <= minWidth {
			return Result{}, fmt.Errorf("%w: cannot fit in %d bytes", ErrTooLarge, opts.MaxOutputBytes)
		}
		// a qualidade já chegou ao mínimo; daqui em diante só a largura cai
		start = minQuality
		width = max(width*3/4, minWidth)
	}
}

// resize escala src para a largura pedida mantendo a proporção, sobre fundo
// branco (JPEG não tem alfa).
func resize(src image.Image, width int) *image.RGBA {
	b := src.Bounds()
	height := max(1, (b.Dy()*width+b.Dx()/2)/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if width == b.Dx() && height == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
