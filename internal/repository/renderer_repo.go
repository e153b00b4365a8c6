package repository

import "context"

// PDFRenderer defines the contract for the external engine that prints HTML to PDF.
type PDFRenderer interface {
	// RenderPDF loads html into a fresh page and returns the printed PDF bytes.
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}
