package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextSanitizer_Sanitize(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Teacher", "Teacher"},
		{"trims", "  Teacher  ", "Teacher"},
		{"script", `Teacher<script>alert(1)</script>`, "Teacher"},
		{"tags", `<b>Class</b> Leader`, "Class Leader"},
		{"ampersand", "R&D", "R&D"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Sanitize(tt.in))
		})
	}
}
