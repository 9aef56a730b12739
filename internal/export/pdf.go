package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/go-pdf/fpdf"

	"hexnews/internal/logger"
)

// A4 portrait geometry in millimetres.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
	MarginMM     = 10.0

	contentWidthMM  = PageWidthMM - 2*MarginMM
	contentHeightMM = PageHeightMM - 2*MarginMM
)

// ErrEmptyImage is returned when the raster has no pixels.
var ErrEmptyImage = errors.New("report image is empty")

// Paginate scales the PNG to the A4 content width and writes it as a PDF,
// slicing it into as many pages as its height needs. It returns the number
// of pages written.
func Paginate(pngData []byte, w io.Writer) (int, error) {
	src, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return 0, fmt.Errorf("decode report image: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return 0, ErrEmptyImage
	}

	pxPerMM := float64(bounds.Dx()) / contentWidthMM
	slicePx := int(math.Floor(contentHeightMM * pxPerMM))
	if slicePx < 1 {
		slicePx = 1
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(MarginMM, MarginMM, MarginMM)
	pdf.SetAutoPageBreak(false, 0)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pages := 0

	for top := bounds.Min.Y; top < bounds.Max.Y; top += slicePx {
		bottom := min(top+slicePx, bounds.Max.Y)

		var buf bytes.Buffer
		if err := png.Encode(&buf, crop(src, image.Rect(bounds.Min.X, top, bounds.Max.X, bottom))); err != nil {
			return 0, fmt.Errorf("encode page %d: %w", pages+1, err)
		}

		name := fmt.Sprintf("page-%d", pages+1)
		pdf.RegisterImageOptionsReader(name, opts, &buf)

		pdf.AddPage()
		pdf.ImageOptions(name, MarginMM, MarginMM, contentWidthMM, float64(bottom-top)/pxPerMM, false, opts, 0, "")

		pages++
	}

	if err := pdf.Output(w); err != nil {
		return 0, fmt.Errorf("write pdf: %w", err)
	}

	return pages, nil
}

func crop(src image.Image, r image.Rectangle) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)

	return dst
}

// Exporter rasterizes a report page and paginates it.
type Exporter struct {
	rasterizer Rasterizer
	logger     *logger.Logger
}

// NewExporter creates an exporter.
func NewExporter(r Rasterizer, log *logger.Logger) *Exporter {
	if log == nil {
		log = logger.Discard()
	}

	return &Exporter{rasterizer: r, logger: log.With("component", "export")}
}

// WritePDF captures selector on url and writes the paginated PDF to w.
func (e *Exporter) WritePDF(ctx context.Context, url, selector string, w io.Writer) (int, error) {
	img, err := e.rasterizer.Capture(ctx, url, selector)
	if err != nil {
		return 0, fmt.Errorf("rasterize report: %w", err)
	}

	var buf bytes.Buffer

	pages, err := Paginate(img, &buf)
	if err != nil {
		return 0, err
	}

	if _, err := buf.WriteTo(w); err != nil {
		return 0, fmt.Errorf("send pdf: %w", err)
	}

	e.logger.Info("report exported", "pages", pages, "bytes", len(img))

	return pages, nil
}
