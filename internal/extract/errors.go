package extract

import (
	"errors"
	"fmt"
)

// Common extraction errors
var (
	// ErrInvalidPDF is returned when the provided data is not a valid PDF
	// document.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	// ErrExtractionFailed is returned when the document could not be
	// processed by either Document AI or the OCR fallback.
	ErrExtractionFailed = errors.New("document extraction failed")

	// ErrMissingCredentials is returned when Google Cloud credentials are not
	// configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials")

	// ErrInvalidConfiguration is returned when the extraction configuration
	// is incomplete.
	ErrInvalidConfiguration = errors.New("invalid extraction configuration")

	// ErrDocumentTooLarge is returned when the document exceeds size limits.
	ErrDocumentTooLarge = errors.New("document exceeds maximum size limit")

	// ErrNoTotalsFound is returned when no VAT totals could be located in the
	// document text.
	ErrNoTotalsFound = errors.New("no VAT totals found in document")
)

// ExtractionError wraps errors with context about the extraction failure.
type ExtractionError struct {
	Op      string
	Err     error
	Details string
}

func (e *ExtractionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("extract: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("extract: %s failed: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// WrapExtractionError wraps err as an ExtractionError unless it already is
// one.
func WrapExtractionError(op string, err error, details string) error {
	if err == nil {
		return nil
	}
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return err
	}
	return &ExtractionError{Op: op, Err: err, Details: details}
}
