// Package services defines the narrow interfaces the filing core consumes
// from external collaborators. Implementations live under internal/.
package services

import (
	"context"
	"io"

	"ctfiler/pkg/models"
)

// CategorizationService assigns chart-of-accounts categories to transactions.
// Callers must re-resolve every returned category before trusting it; the
// service's output is a suggestion, not canonical.
type CategorizationService interface {
	// Categorize returns the transactions with a category suggestion filled
	// in. A failed call leaves the caller's transactions untouched.
	Categorize(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, error)
}

// ExtractionService pulls the VAT return totals out of a filed document.
// It returns numbers only; the core never parses source documents.
type ExtractionService interface {
	// ExtractTotals reads the document and returns its period and totals.
	ExtractTotals(ctx context.Context, document io.Reader, mimeType string) (*models.VATTotals, error)
}

// WorkflowStore is the opaque step checkpoint store. The core writes its full
// state snapshot at each step boundary and restores from the latest completed
// step on load.
type WorkflowStore interface {
	SaveStep(ctx context.Context, stepKey string, stepNumber int, data any, status string) error
}

// Exporter serializes flattened report rows to an external destination. The
// core defines the rows, never the output format.
type Exporter interface {
	Export(ctx context.Context, title string, rows []models.ExportRow) error
}
