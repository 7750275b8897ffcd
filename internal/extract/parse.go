package extract

import (
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// entityAmount reads a money value from an entity, preferring the normalized
// value over the raw mention text.
func entityAmount(entity *documentaipb.Document_Entity) float64 {
	if nv := entity.NormalizedValue; nv != nil {
		if mv := nv.GetMoneyValue(); mv != nil {
			return float64(mv.Units) + float64(mv.Nanos)/1e9
		}
		if f := nv.GetFloatValue(); f != 0 {
			return float64(f)
		}
	}
	amount, err := parseAmount(entity.MentionText)
	if err != nil {
		return 0
	}
	return amount
}

// entityDate reads a date from an entity as YYYY-MM-DD, preferring the
// normalized value.
func entityDate(entity *documentaipb.Document_Entity) string {
	if nv := entity.NormalizedValue; nv != nil {
		if dv := nv.GetDateValue(); dv != nil && dv.Year != 0 {
			return fmt.Sprintf("%04d-%02d-%02d", dv.Year, dv.Month, dv.Day)
		}
	}
	return strings.TrimSpace(entity.MentionText)
}

// parseAmount parses an amount string, tolerating currency markers and
// thousands separators.
func parseAmount(amountStr string) (float64, error) {
	cleaned := strings.TrimSpace(amountStr)
	for _, marker := range []string{" ", "AED", "aed", "Dhs", "DHS", "د.إ"} {
		cleaned = strings.ReplaceAll(cleaned, marker, "")
	}
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = strings.Trim(cleaned, "()")
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount value")
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse amount: %s (cleaned: %s)", amountStr, cleaned)
	}
	if negative {
		amount = -amount
	}
	return amount, nil
}
