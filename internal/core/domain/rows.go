package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrValidation marks row input that failed validation. The service layer
// wraps it into the HTTP-facing error taxonomy; the domain package stays
// dependency-free.
var ErrValidation = errors.New("row validation failed")

// Row is one tabular input line for a source. The set of keys varies per
// source; the schema says which keys are mandatory and which are numeric.
type Row map[string]any

// ResultRow is one computed output line from the computation service.
type ResultRow map[string]any

// ValidateRows checks every row against the schema's required-field set.
// It is the only stage of the submission pipeline that can reject input;
// the returned error names the first violation found.
func ValidateRows(schema SourceSchema, rows []Row) error {
	for i, row := range rows {
		for _, field := range schema.RequiredFields {
			value, present := row[field]
			if !present || value == nil {
				return fmt.Errorf("row %d: missing required field %q: %w", i+1, field, ErrValidation)
			}
			if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
				return fmt.Errorf("row %d: missing required field %q: %w", i+1, field, ErrValidation)
			}
		}
	}
	return nil
}

// SanitizeRows converts the schema's numeric fields to decimals, defaulting
// empty or unparsable values to zero, and passes every other field through
// unchanged. Sanitization is total: malformed numeric input degrades to zero
// rather than failing.
func SanitizeRows(schema SourceSchema, rows []Row) []Row {
	sanitized := make([]Row, len(rows))
	for i, row := range rows {
		out := make(Row, len(row))
		for k, v := range row {
			out[k] = v
		}
		for _, field := range schema.NumericFields {
			out[field] = toDecimal(row[field])
		}
		sanitized[i] = out
	}
	return sanitized
}

// toDecimal coerces free-text or numeric JSON values to a decimal, zero on
// anything unparsable.
func toDecimal(value any) decimal.Decimal {
	switch v := value.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case string:
		trimmed := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if trimmed == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(trimmed)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
