// ABOUTME: Tests for the pgvector literal codec
// ABOUTME: Backend behavior is covered by the shared ChunkStore suites
package postgres

import (
	"testing"
)

func TestVectorToString(t *testing.T) {
	tests := []struct {
		name     string
		vector   []float64
		expected string
	}{
		{"empty", []float64{}, "[]"},
		{"single", []float64{1.5}, "[1.5]"},
		{"multiple", []float64{0.1, -2, 3.25}, "[0.1,-2,3.25]"},
		{"integers stay compact", []float64{1, 2, 3}, "[1,2,3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VectorToString(tt.vector); got != tt.expected {
				t.Errorf("VectorToString() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestVectorFromString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []float64
		wantErr  bool
	}{
		{"empty vector", "[]", []float64{}, false},
		{"single", "[42]", []float64{42}, false},
		{"multiple", "[0.1,-2,3.25]", []float64{0.1, -2, 3.25}, false},
		{"spaces tolerated", " [1, 2, 3] ", []float64{1, 2, 3}, false},
		{"missing brackets", "1,2,3", nil, true},
		{"bad element", "[1,abc,3]", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VectorFromString(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("VectorFromString() error = %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("length = %d, want %d", len(got), len(tt.expected))
			}
			for i := range tt.expected {
				if got[i] != tt.expected[i] {
					t.Errorf("element %d = %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestVectorCodecRoundtrip(t *testing.T) {
	vectors := [][]float64{
		{},
		{0},
		{-1.5, 0.0001, 3.14159265358979},
		{1e-300, 1e300},
	}

	for _, vector := range vectors {
		got, err := VectorFromString(VectorToString(vector))
		if err != nil {
			t.Fatalf("roundtrip error for %v: %v", vector, err)
		}
		if len(got) != len(vector) {
			t.Fatalf("roundtrip length = %d, want %d", len(got), len(vector))
		}
		for i := range vector {
			if got[i] != vector[i] {
				t.Errorf("roundtrip element %d = %v, want %v", i, got[i], vector[i])
			}
		}
	}
}
