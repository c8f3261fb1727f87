// Package pdf renders documents to PDF with pdfcpu.
package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"docflow/internal/port"
)

type renderer struct {
	conf *model.Configuration
}

// NewRenderer creates a DocumentRenderer producing PDF bytes.
func NewRenderer() port.DocumentRenderer {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &renderer{conf: conf}
}

func (r *renderer) ContentType() string {
	return "application/pdf"
}

func (r *renderer) Render(ctx context.Context, input port.RenderInput) ([]byte, error) {
	if input.Document == nil {
		return nil, fmt.Errorf("pdf.Render: no document")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	layout, err := json.Marshal(BuildLayout(input))
	if err != nil {
		return nil, fmt.Errorf("pdf.Render: encoding layout: %w", err)
	}

	var out bytes.Buffer
	var base io.ReadSeeker
	if err := api.Create(base, bytes.NewReader(layout), &out, r.conf); err != nil {
		return nil, fmt.Errorf("pdf.Render %s: %w", input.Document.DocumentNumber, err)
	}
	return out.Bytes(), nil
}
