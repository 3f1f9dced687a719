package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"whitespace around ASC returns ASC", "  ASC  ", "ASC"},
		{"desc returns DESC", "desc", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE projects;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"whitelisted field", "end_date", "end_date"},
		{"trimmed whitelisted field", " code ", "code"},
		{"empty falls back", "", "created_at"},
		{"unknown falls back", "password_hash", "created_at"},
		{"injection falls back", "name; DELETE FROM projects", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, ProjectSortFields, "created_at"))
		})
	}
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%bridge%", likePattern("  Bridge "))
}
