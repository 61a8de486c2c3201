package utils_test

import (
	"testing"

	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	"github.com/carbonly/carbon_footprint_app/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestHashRows(t *testing.T) {
	a := []domain.Row{{"site": "A", "consumption": "1000"}}
	b := []domain.Row{{"consumption": "1000", "site": "A"}}
	c := []domain.Row{{"site": "A", "consumption": "1001"}}

	assert.Equal(t, utils.HashRows(a), utils.HashRows(b), "key order must not change the hash")
	assert.NotEqual(t, utils.HashRows(a), utils.HashRows(c))
	assert.Len(t, utils.HashRows(a), 64)
	assert.NotEqual(t, utils.HashRows(nil), utils.HashRows([]domain.Row{}))
}
