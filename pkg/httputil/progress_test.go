package httputil

import (
	"io"
	"slices"
	"strings"
	"testing"
	"testing/iotest"
)

func TestProgressReader(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		total int64
		want  []int
	}{
		{"KnownLength", "abcd", 4, []int{25, 50, 75, 100}},
		{"UnknownLength", "abcd", -1, []int{100}},
		{"Empty", "", 0, []int{100}},
		{"ShortBody", "ab", 4, []int{25, 50, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			r := NewProgressReader(iotest.OneByteReader(strings.NewReader(tt.body)), tt.total, func(pct int) {
				got = append(got, pct)
			})
			data, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.body {
				t.Errorf("body = %q, want %q", data, tt.body)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("progress = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgressReaderNilCallback(t *testing.T) {
	r := NewProgressReader(strings.NewReader("abc"), 3, nil)
	if _, err := io.ReadAll(r); err != nil {
		t.Fatal(err)
	}
}
