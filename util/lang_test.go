package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIetfToIsoLangCode(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"en", "en_US"},
		{"en-GB", "en_US"},
		{"ru", "ru_RU"},
		{"uk", "uk_UA"},
		{"de-AT", "de_DE"},
		{"pt", "pt_BR"},
		{"", "en_US"},
		{"zz-garbage", "en_US"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IetfToIsoLangCode(tt.lang), "lang %q", tt.lang)
	}
}