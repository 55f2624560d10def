package compression

import (
	"bytes"
	"strings"
	"testing"
)

func TestZstdCompressor(t *testing.T) {
	var c Compressor = NewZstdCompressor()

	testCases := []struct {
		name string
		data []byte
	}{
		{name: "Document", data: []byte("---\ntitle: Hello\n---\nbody line\n")},
		{name: "Repetitive", data: []byte(strings.Repeat("lorem ipsum ", 1000))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			compressed, err := c.Compress(tc.data)
			if err != nil {
				t.Fatalf("Failed to compress: %v", err)
			}

			got, err := c.Decompress(compressed)
			if err != nil {
				t.Fatalf("Failed to decompress: %v", err)
			}
			if !bytes.Equal(got, tc.data) {
				t.Errorf("Expected %q, got %q", tc.data, got)
			}
		})
	}
}

func TestZstdCompressorShrinks(t *testing.T) {
	c := NewZstdCompressor()
	data := []byte(strings.Repeat("lorem ipsum ", 1000))

	compressed, err := c.Compress(data)
	if err != nil {
		t.Fatalf("Failed to compress: %v", err)
	}
	if len(compressed) >= len(data) {
		t.Errorf("Expected compressed size below %d, got %d", len(data), len(compressed))
	}
}

func TestZstdCompressorRejectsGarbage(t *testing.T) {
	c := NewZstdCompressor()
	if _, err := c.Decompress([]byte("not zstd")); err == nil {
		t.Error("Expected an error for invalid input")
	}
}
