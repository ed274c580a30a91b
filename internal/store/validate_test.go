package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLink(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		url       string
		wantField string
	}{
		{name: "valid https", title: "Go", url: "https://go.dev"},
		{name: "valid http with path", title: "Docs", url: "http://example.com/a?b=c"},
		{name: "blank title", title: "   ", url: "https://go.dev", wantField: "title"},
		{name: "long title", title: strings.Repeat("x", MaxTitleLength+1), url: "https://go.dev", wantField: "title"},
		{name: "title reported first", title: "", url: "nope", wantField: "title"},
		{name: "empty url", title: "Go", url: "", wantField: "url"},
		{name: "relative url", title: "Go", url: "/just/a/path", wantField: "url"},
		{name: "no host", title: "Go", url: "https://", wantField: "url"},
		{name: "ftp scheme", title: "Go", url: "ftp://example.com/file", wantField: "url"},
		{name: "javascript scheme", title: "Go", url: "javascript:alert(1)", wantField: "url"},
		{name: "long url", title: "Go", url: "https://example.com/" + strings.Repeat("a", MaxURLLength), wantField: "url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLink(tt.title, tt.url)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			if assert.True(t, errors.As(err, &ve), "want *ValidationError, got %v", err) {
				assert.Equal(t, tt.wantField, ve.Field)
				assert.NotEmpty(t, ve.Message)
			}
		})
	}
}

func TestValidateTitle_CountsRunes(t *testing.T) {
	assert.NoError(t, ValidateTitle(strings.Repeat("é", MaxTitleLength)))
}
