package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/skrybl/skrybl/headless"
)

// A4 paper and fixed export margins, in inches.
const (
	paperWidthIn  = 8.27
	paperHeightIn = 11.69
	marginIn      = 0.5
)

// PDFConfig configures the PDF renderer.
type PDFConfig struct {
	Browser *headless.Browser

	// SettleDelay is how long the rendered page is given for the deferred
	// math-typesetting and syntax-highlighting scripts to finish before
	// rasterization. Default: 1500ms.
	SettleDelay time.Duration

	Logger *slog.Logger
}

func (c *PDFConfig) defaults() {
	if c.SettleDelay <= 0 {
		c.SettleDelay = 1500 * time.Millisecond
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// PDFRenderer turns exported HTML into a paginated PDF. It is not a
// separate serializer: callers produce the document with HTML() and hand
// the string here.
type PDFRenderer struct {
	cfg PDFConfig
}

// NewPDFRenderer creates a PDFRenderer. The browser handle is required.
func NewPDFRenderer(cfg PDFConfig) *PDFRenderer {
	cfg.defaults()
	return &PDFRenderer{cfg: cfg}
}

// Render loads htmlContent in an off-screen page, waits the settle delay,
// and rasterizes to an A4 PDF byte stream with 0.5 inch margins. The
// output is validated with pdfcpu before being returned.
func (r *PDFRenderer) Render(ctx context.Context, htmlContent string) ([]byte, error) {
	log := r.cfg.Logger
	start := time.Now()

	page, err := r.cfg.Browser.Page(ctx)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.SetDocumentContent(htmlContent); err != nil {
		return nil, fmt.Errorf("pdf: set content: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(r.cfg.SettleDelay):
	}

	paperW, paperH, margin := paperWidthIn, paperHeightIn, marginIn
	printBackground := true
	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: printBackground,
		PaperWidth:      &paperW,
		PaperHeight:     &paperH,
		MarginTop:       &margin,
		MarginBottom:    &margin,
		MarginLeft:      &margin,
		MarginRight:     &margin,
	})
	if err != nil {
		return nil, fmt.Errorf("pdf: print: %w", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("pdf: read stream: %w", err)
	}

	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdf: validate output: %w", err)
	}
	if pdfCtx.PageCount < 1 {
		return nil, fmt.Errorf("pdf: rasterizer produced no pages")
	}

	log.Debug("pdf: rendered", "bytes", len(data), "pages", pdfCtx.PageCount, "duration", time.Since(start))
	return data, nil
}
