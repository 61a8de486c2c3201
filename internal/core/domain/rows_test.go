package domain_test

import (
	"errors"
	"testing"

	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRows(t *testing.T) {
	schema := domain.SourceSchema{
		SourceKey:      "2A",
		RequiredFields: []string{"site", "consumption"},
		NumericFields:  []string{"consumption"},
	}

	t.Run("valid rows pass", func(t *testing.T) {
		rows := []domain.Row{
			{"site": "A", "consumption": "1000"},
			{"site": "B", "consumption": 250.5, "note": "optional"},
		}
		assert.NoError(t, domain.ValidateRows(schema, rows))
	})

	t.Run("missing required field is named in the error", func(t *testing.T) {
		rows := []domain.Row{
			{"site": "A", "consumption": "1000"},
			{"consumption": "40"},
		}
		err := domain.ValidateRows(schema, rows)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
		assert.Contains(t, err.Error(), `"site"`)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("blank string counts as missing", func(t *testing.T) {
		rows := []domain.Row{{"site": "  ", "consumption": "1000"}}
		err := domain.ValidateRows(schema, rows)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	t.Run("empty row set passes", func(t *testing.T) {
		assert.NoError(t, domain.ValidateRows(schema, nil))
	})
}

func TestSanitizeRows(t *testing.T) {
	schema := domain.SourceSchema{
		SourceKey:      "2A",
		RequiredFields: []string{"site", "consumption"},
		NumericFields:  []string{"consumption"},
	}

	t.Run("free-text numerics become decimals", func(t *testing.T) {
		rows := []domain.Row{{"site": "A", "consumption": "1000"}}
		got := domain.SanitizeRows(schema, rows)

		require.Len(t, got, 1)
		assert.Equal(t, "A", got[0]["site"])
		d, ok := got[0]["consumption"].(decimal.Decimal)
		require.True(t, ok)
		assert.True(t, d.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("unparsable and empty numerics degrade to zero", func(t *testing.T) {
		rows := []domain.Row{
			{"site": "A", "consumption": "not a number"},
			{"site": "B", "consumption": ""},
			{"site": "C"},
		}
		got := domain.SanitizeRows(schema, rows)
		for _, row := range got {
			d, ok := row["consumption"].(decimal.Decimal)
			require.True(t, ok)
			assert.True(t, d.IsZero())
		}
	})

	t.Run("comma decimal separator is accepted", func(t *testing.T) {
		rows := []domain.Row{{"site": "A", "consumption": "12,5"}}
		got := domain.SanitizeRows(schema, rows)
		d := got[0]["consumption"].(decimal.Decimal)
		assert.True(t, d.Equal(decimal.RequireFromString("12.5")))
	})

	t.Run("input rows are not mutated", func(t *testing.T) {
		rows := []domain.Row{{"site": "A", "consumption": "7"}}
		_ = domain.SanitizeRows(schema, rows)
		assert.Equal(t, "7", rows[0]["consumption"])
	})
}
