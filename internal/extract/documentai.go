// Package extract pulls VAT return totals out of filed documents with Google
// Document AI, falling back to Vision OCR text parsing when the structured
// processor yields nothing. It returns numbers only; nothing else in the core
// touches source documents.
package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"ctfiler/internal/logger"
	"ctfiler/pkg/models"
	"ctfiler/pkg/services"
)

// MaxDocumentSizeBytes is the maximum document size for processing (20MB).
const MaxDocumentSizeBytes = 20 * 1024 * 1024

// Config holds the Document AI processor coordinates.
type Config struct {
	ProjectID        string
	Location         string
	ProcessorID      string
	ProcessorVersion string
	Timeout          time.Duration
}

// Service implements services.ExtractionService with Document AI plus a
// Vision OCR text fallback.
type Service struct {
	client *documentai.DocumentProcessorClient
	ocr    *ocrFallback
	config Config
	log    zerolog.Logger
}

// NewService creates an extraction service with credentials from the
// environment. Expects GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS,
// plus GOOGLE_PROJECT_ID and optionally GOOGLE_LOCATION / GOOGLE_PROCESSOR_ID.
func NewService(ctx context.Context) (services.ExtractionService, error) {
	const op = "NewService"

	config := Config{
		ProjectID:   getEnvVar("GOOGLE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT"),
		Location:    getEnvVar("GOOGLE_LOCATION", "GOOGLE_CLOUD_LOCATION"),
		ProcessorID: getEnvVar("GOOGLE_PROCESSOR_ID", "DOCUMENT_AI_PROCESSOR_ID"),
		Timeout:     60 * time.Second,
	}
	if config.ProjectID == "" {
		return nil, WrapExtractionError(op, ErrInvalidConfiguration, "GOOGLE_PROJECT_ID or GOOGLE_CLOUD_PROJECT is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}

	var clientOptions []option.ClientOption
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(clientOptions) == 0 {
			return nil, WrapExtractionError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapExtractionError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	log := logger.WithComponent("extract")

	ocr, err := newOCRFallback(ctx)
	if err != nil {
		// The structured processor alone is still usable.
		log.Warn().Err(err).Msg("Vision OCR fallback unavailable")
		ocr = nil
	}

	return &Service{
		client: client,
		ocr:    ocr,
		config: config,
		log:    log,
	}, nil
}

// NewServiceWithConfig creates a service with explicit config and client (for
// testing).
func NewServiceWithConfig(config Config, client *documentai.DocumentProcessorClient) *Service {
	return &Service{
		client: client,
		config: config,
		log:    logger.WithComponent("extract"),
	}
}

// ExtractTotals reads the document and returns its VAT period and totals.
// The caller's state is never touched on failure.
func (s *Service) ExtractTotals(ctx context.Context, document io.Reader, mimeType string) (*models.VATTotals, error) {
	const op = "ExtractTotals"

	data, err := io.ReadAll(document)
	if err != nil {
		return nil, WrapExtractionError(op, err, "failed to read document data")
	}
	if len(data) > MaxDocumentSizeBytes {
		return nil, WrapExtractionError(op, ErrDocumentTooLarge, fmt.Sprintf("file size: %d bytes", len(data)))
	}
	if mimeType == "application/pdf" && (len(data) < 4 || string(data[:4]) != "%PDF") {
		return nil, WrapExtractionError(op, ErrInvalidPDF, "missing PDF header")
	}

	processCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	totals, err := s.processDocument(processCtx, data, mimeType)
	if err == nil && totals != nil {
		return totals, nil
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("Document AI extraction failed, trying OCR fallback")
	}

	if s.ocr == nil {
		if err != nil {
			return nil, WrapExtractionError(op, err, "Document AI failed and no OCR fallback")
		}
		return nil, WrapExtractionError(op, ErrNoTotalsFound, "")
	}

	text, ocrErr := s.ocr.extractText(processCtx, data, mimeType)
	if ocrErr != nil {
		return nil, WrapExtractionError(op, ocrErr, "OCR fallback failed")
	}
	totals, parseErr := parseTotalsFromText(text)
	if parseErr != nil {
		return nil, WrapExtractionError(op, parseErr, "OCR text parsing failed")
	}

	s.log.Info().
		Str("period_from", totals.PeriodFrom).
		Str("period_to", totals.PeriodTo).
		Float64("net_vat_payable", totals.NetVATPayable).
		Msg("VAT totals extracted via OCR fallback")
	return totals, nil
}

func (s *Service) processDocument(ctx context.Context, data []byte, mimeType string) (*models.VATTotals, error) {
	const op = "processDocument"

	req := &documentaipb.ProcessRequest{
		Name: s.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: mimeType,
			},
		},
	}

	resp, err := s.client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, WrapExtractionError(op, ErrExtractionFailed, fmt.Sprintf("Document AI error: %v", err))
	}
	if resp.Document == nil {
		return nil, WrapExtractionError(op, ErrExtractionFailed, "no document in response")
	}

	totals := &models.VATTotals{}
	matched := 0
	for _, entity := range resp.Document.Entities {
		value := strings.TrimSpace(entity.MentionText)
		s.log.Debug().
			Str("entity_type", entity.Type).
			Str("value", value).
			Float32("confidence", entity.Confidence).
			Msg("Processing Document AI entity")

		if s.applyEntity(totals, entity) {
			matched++
		}
	}
	if matched == 0 {
		return nil, nil
	}

	fillDerivedTotals(totals)

	s.log.Info().
		Int("entities", matched).
		Float64("net_vat_payable", totals.NetVATPayable).
		Msg("Document AI extraction completed")
	return totals, nil
}

func (s *Service) applyEntity(totals *models.VATTotals, entity *documentaipb.Document_Entity) bool {
	switch entity.Type {
	case "period_from", "return_period_from":
		totals.PeriodFrom = entityDate(entity)
	case "period_to", "return_period_to":
		totals.PeriodTo = entityDate(entity)
	case "sales_zero_rated":
		totals.Sales.ZeroRated = entityAmount(entity)
	case "sales_standard_rated", "standard_rated_supplies":
		totals.Sales.StandardRated = entityAmount(entity)
	case "sales_vat_amount", "output_vat":
		totals.Sales.VATAmount = entityAmount(entity)
	case "sales_total":
		totals.Sales.Total = entityAmount(entity)
	case "purchases_zero_rated":
		totals.Purchases.ZeroRated = entityAmount(entity)
	case "purchases_standard_rated", "standard_rated_expenses":
		totals.Purchases.StandardRated = entityAmount(entity)
	case "purchases_vat_amount", "input_vat", "recoverable_vat":
		totals.Purchases.VATAmount = entityAmount(entity)
	case "purchases_total":
		totals.Purchases.Total = entityAmount(entity)
	case "net_vat_payable", "net_vat_due":
		totals.NetVATPayable = entityAmount(entity)
	default:
		return false
	}
	return true
}

// fillDerivedTotals computes totals the document did not state explicitly.
func fillDerivedTotals(t *models.VATTotals) {
	if t.Sales.Total == 0 {
		t.Sales.Total = t.Sales.ZeroRated + t.Sales.StandardRated + t.Sales.VATAmount
	}
	if t.Purchases.Total == 0 {
		t.Purchases.Total = t.Purchases.ZeroRated + t.Purchases.StandardRated + t.Purchases.VATAmount
	}
	if t.NetVATPayable == 0 {
		t.NetVATPayable = t.Sales.VATAmount - t.Purchases.VATAmount
	}
}

func (s *Service) processorName() string {
	if s.config.ProcessorID != "" {
		if s.config.ProcessorVersion != "" {
			return fmt.Sprintf("projects/%s/locations/%s/processors/%s/processorVersions/%s",
				s.config.ProjectID, s.config.Location, s.config.ProcessorID, s.config.ProcessorVersion)
		}
		return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
			s.config.ProjectID, s.config.Location, s.config.ProcessorID)
	}
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		s.config.ProjectID, s.config.Location, "default-form-processor")
}

func getEnvVar(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
