package main

import "testing"

func TestBenchSize(t *testing.T) {
	tests := []struct {
		n, species, want int
	}{
		{1500, 3, 1500},
		{1501, 3, 1500},
		{600, 6, 600},
		{7, 6, 6},
		{2, 3, 3},
		{0, 3, 3},
	}

	for _, tt := range tests {
		if got := benchSize(tt.n, tt.species); got != tt.want {
			t.Errorf("benchSize(%d, %d) = %d, want %d", tt.n, tt.species, got, tt.want)
		}
	}
}
