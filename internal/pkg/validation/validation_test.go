package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name  string
		check func() bool
		want  bool
	}{
		{"email ok", func() bool { return ValidEmail("dharmanadevendar@gmail.com") }, true},
		{"email missing domain", func() bool { return ValidEmail("someone@") }, false},
		{"username ok", func() bool { return ValidUsername("devendar_01") }, true},
		{"username with space", func() bool { return ValidUsername("dev endar") }, false},
		{"username too short", func() bool { return ValidUsername("ab") }, false},
		{"name ok", func() bool { return ValidName("Devendar Dharmana") }, true},
		{"name too short", func() bool { return ValidName("D") }, false},
		{"note at limit", func() bool { return ValidNote(strings.Repeat("a", 60)) }, true},
		{"note over limit", func() bool { return ValidNote(strings.Repeat("a", 61)) }, false},
		{"note counts characters not bytes", func() bool { return ValidNote(strings.Repeat("é", 60)) }, true},
		{"year ok", func() bool { return ValidYear(4) }, true},
		{"year zero", func() bool { return ValidYear(0) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check())
		})
	}
}

func TestStringValidationOptional(t *testing.T) {
	assert.True(t, NewStringValidation("").WithRequired(false).WithMinLength(3).Validate())
	assert.False(t, NewStringValidation("").Validate())
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "hello world", SanitizeText("  <b>hello</b> world<script>alert(1)</script> "))
	assert.Equal(t, "Tom & Jerry's", SanitizeText("Tom & Jerry's"))
	assert.Equal(t, []string{"dsa", "notes"}, SanitizeAll([]string{"dsa", " <i></i> ", "notes"}))
}
