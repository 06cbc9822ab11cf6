package errors

import (
	"strings"
	"testing"
)

func TestValidateStationID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"parent station", "place-knncl", false},
		{"underscore", "place_sstat", false},
		{"digits", "70061", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"dot separator", "place.knncl", true},
		{"slash", "../etc/passwd", true},
		{"backslash", "foo\\bar", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"leading dash", "-place", true},
		{"space", "place knncl", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStationID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStationID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidStationID) {
				t.Errorf("ValidateStationID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidStationID)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://mbtaviz.github.io/data", false},
		{"http://localhost:8080", false},
		{"", true},
		{"ftp://example.com", true},
		{"file:///etc/passwd", true},
	}

	for _, tt := range tests {
		if err := ValidateURL(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateLine(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"red", false},
		{"Green", false},
		{"", true},
		{"   ", true},
		{"red/blue", true},
	}

	for _, tt := range tests {
		if err := ValidateLine(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateLine(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
