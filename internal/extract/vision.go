package extract

import (
	"context"
	"os"
	"regexp"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"ctfiler/pkg/models"
)

// ocrFallback extracts raw document text with Google Cloud Vision when the
// structured Document AI processor finds nothing.
type ocrFallback struct {
	client *vision.ImageAnnotatorClient
}

func newOCRFallback(ctx context.Context) (*ocrFallback, error) {
	const op = "newOCRFallback"

	var client *vision.ImageAnnotatorClient
	var err error
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
	} else {
		client, err = vision.NewImageAnnotatorClient(ctx)
	}
	if err != nil {
		return nil, WrapExtractionError(op, ErrMissingCredentials, "failed to create Vision client")
	}
	return &ocrFallback{client: client}, nil
}

func (o *ocrFallback) extractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	const op = "extractText"

	req := &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{
			{
				InputConfig: &visionpb.InputConfig{
					Content:  data,
					MimeType: mimeType,
				},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := o.client.BatchAnnotateFiles(ctx, req)
	if err != nil {
		return "", WrapExtractionError(op, ErrExtractionFailed, "Vision API call failed")
	}
	if len(resp.Responses) == 0 {
		return "", WrapExtractionError(op, ErrExtractionFailed, "no response from Vision API")
	}

	var b strings.Builder
	for _, fileResp := range resp.Responses {
		if fileResp.Error != nil {
			return "", WrapExtractionError(op, ErrExtractionFailed, fileResp.Error.Message)
		}
		for _, page := range fileResp.Responses {
			if page.FullTextAnnotation != nil {
				b.WriteString(page.FullTextAnnotation.Text)
				b.WriteString("\n")
			}
		}
	}
	return b.String(), nil
}

// Label patterns for the FTA VAT return layout. Each captures the first
// amount following its label on the same line.
var totalsPatterns = []struct {
	re    *regexp.Regexp
	apply func(t *models.VATTotals, v float64)
}{
	{regexp.MustCompile(`(?i)standard rated supplies\D*([\d,.]+)`), func(t *models.VATTotals, v float64) { t.Sales.StandardRated = v }},
	{regexp.MustCompile(`(?i)zero rated supplies\D*([\d,.]+)`), func(t *models.VATTotals, v float64) { t.Sales.ZeroRated = v }},
	{regexp.MustCompile(`(?i)(?:output vat|vat on sales)\D*([\d,.]+)`), func(t *models.VATTotals, v float64) { t.Sales.VATAmount = v }},
	{regexp.MustCompile(`(?i)standard rated expenses\D*([\d,.]+)`), func(t *models.VATTotals, v float64) { t.Purchases.StandardRated = v }},
	{regexp.MustCompile(`(?i)(?:input vat|recoverable vat|vat on expenses)\D*([\d,.]+)`), func(t *models.VATTotals, v float64) { t.Purchases.VATAmount = v }},
	{regexp.MustCompile(`(?i)net vat (?:payable|due)\D*([\d,.]+)`), func(t *models.VATTotals, v float64) { t.NetVATPayable = v }},
}

var periodPattern = regexp.MustCompile(`(?i)period\s*:?\s*(\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4})\s*(?:to|-|–)\s*(\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4})`)

// parseTotalsFromText scrapes VAT totals out of raw OCR text.
func parseTotalsFromText(text string) (*models.VATTotals, error) {
	totals := &models.VATTotals{}
	matched := 0

	for _, p := range totalsPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := parseAmount(m[1])
		if err != nil {
			continue
		}
		p.apply(totals, v)
		matched++
	}
	if m := periodPattern.FindStringSubmatch(text); m != nil {
		totals.PeriodFrom = m[1]
		totals.PeriodTo = m[2]
	}

	if matched == 0 {
		return nil, ErrNoTotalsFound
	}
	fillDerivedTotals(totals)
	return totals, nil
}
