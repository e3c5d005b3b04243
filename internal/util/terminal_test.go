package util

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"Aloha ʻOe", 20, "Aloha ʻOe"},
		{"Aloha ʻOe", 9, "Aloha ʻOe"},
		{"Aloha ʻOe", 6, "Aloha…"},
		{"Haleakalā", 1, "…"},
		{"Haleakalā", 0, ""},
	}

	for _, tt := range tests {
		result := Truncate(tt.input, tt.width)
		if result != tt.expected {
			t.Errorf("Truncate(%q, %d) = %q, expected %q", tt.input, tt.width, result, tt.expected)
		}
	}
}
