package out

import (
	"context"
	"fmt"

	"rsc.io/pdf"

	"gazeink/internal/modules/surface/domain"
	surfaceout "gazeink/internal/modules/surface/port/out"
)

// PDFInspector reads back rendered documents.
type PDFInspector struct{}

var _ surfaceout.DocumentInspector = PDFInspector{}

func NewPDFInspector() PDFInspector {
	return PDFInspector{}
}

func (PDFInspector) Inspect(_ context.Context, path string) (domain.DocumentInfo, error) {
	doc, err := pdf.Open(path)
	if err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("open pdf: %w", err)
	}
	info := domain.DocumentInfo{
		Pages: doc.NumPage(),
		Title: doc.Trailer().Key("Info").Key("Title").Text(),
	}
	if info.Pages == 0 {
		return info, nil
	}
	page := doc.Page(1)
	if page.V.IsNull() {
		return domain.DocumentInfo{}, fmt.Errorf("pdf page 1 is null")
	}
	box := inherited(page.V, "MediaBox")
	if box.Len() == 4 {
		info.Width = box.Index(2).Float64() - box.Index(0).Float64()
		info.Height = box.Index(3).Float64() - box.Index(1).Float64()
	}
	return info, nil
}

func inherited(v pdf.Value, key string) pdf.Value {
	for !v.IsNull() {
		if val := v.Key(key); !val.IsNull() {
			return val
		}
		v = v.Key("Parent")
	}
	return v
}
