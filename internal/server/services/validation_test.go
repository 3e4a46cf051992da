package services

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/datavault/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{}, normalizeTags(nil))
	assert.Equal(t, []string{"a", "b"}, normalizeTags([]string{" a", "b", "a ", "  "}))
}

func TestValidateColor(t *testing.T) {
	for _, c := range []string{"#fff", "#3B82F6"} {
		v := common.NewValidationError()
		validateColor(v, &c)
		assert.True(t, v.Empty(), c)
	}
	for _, c := range []string{"fff", "#ggg", "#12345", "#1234567"} {
		v := common.NewValidationError()
		validateColor(v, &c)
		assert.Contains(t, v.Fields, "color", c)
	}
	v := common.NewValidationError()
	validateColor(v, nil)
	assert.True(t, v.Empty())
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, perPage, def   int
		wantPage, wantPerPg int
	}{
		{0, 0, 15, 1, 15},
		{-3, 5, 15, 1, 5},
		{2, 500, 15, 2, 100},
		{1, 0, 0, 1, 15},
		{4, 0, 30, 4, 30},
	}
	for _, tt := range tests {
		p, pp := normalizePage(tt.page, tt.perPage, tt.def)
		assert.Equal(t, tt.wantPage, p)
		assert.Equal(t, tt.wantPerPg, pp)
	}
}

func TestRowMessage(t *testing.T) {
	v := common.NewValidationError()
	v.Add("title", "The title field is required.")
	v.Add("data", "The data field is required.")
	assert.Equal(t, "The data field is required. The title field is required.", rowMessage(v))
	assert.Equal(t, "boom", rowMessage(errors.New("boom")))
}
