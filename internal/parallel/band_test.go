package parallel

import "testing"

// checkCover verifies that bands are contiguous, non-empty and cover
// [0, height).
func checkCover(t *testing.T, bands []Band, height int) {
	t.Helper()
	y := 0
	for i, b := range bands {
		if b.Y0 != y {
			t.Fatalf("band %d starts at %d, want %d", i, b.Y0, y)
		}
		if b.Rows() <= 0 {
			t.Fatalf("band %d is empty: %+v", i, b)
		}
		y = b.Y1
	}
	if y != height {
		t.Fatalf("bands end at %d, want %d", y, height)
	}
}

func TestBands(t *testing.T) {
	tests := []struct {
		name      string
		height, n int
		wantCount int
	}{
		{"even split", 100, 4, 4},
		{"uneven split", 10, 3, 3},
		{"more bands than rows", 3, 8, 3},
		{"single band", 7, 1, 1},
		{"single row", 1, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bands := Bands(tt.height, tt.n)
			if len(bands) != tt.wantCount {
				t.Fatalf("len(Bands(%d, %d)) = %d, want %d", tt.height, tt.n, len(bands), tt.wantCount)
			}
			checkCover(t, bands, tt.height)

			lo, hi := bands[0].Rows(), bands[0].Rows()
			for _, b := range bands {
				lo, hi = min(lo, b.Rows()), max(hi, b.Rows())
			}
			if hi-lo > 1 {
				t.Errorf("band heights range %d..%d, want difference <= 1", lo, hi)
			}
		})
	}
}

func TestBands_Degenerate(t *testing.T) {
	if b := Bands(0, 4); b != nil {
		t.Errorf("Bands(0, 4) = %v, want nil", b)
	}
	if b := Bands(10, 0); b != nil {
		t.Errorf("Bands(10, 0) = %v, want nil", b)
	}
}

func TestBandsOfHeight(t *testing.T) {
	bands := BandsOfHeight(10, 4)
	want := []Band{{0, 4}, {4, 8}, {8, 10}}
	if len(bands) != len(want) {
		t.Fatalf("BandsOfHeight(10, 4) = %v, want %v", bands, want)
	}
	for i := range want {
		if bands[i] != want[i] {
			t.Errorf("band %d = %+v, want %+v", i, bands[i], want[i])
		}
	}
	checkCover(t, BandsOfHeight(1000, 16), 1000)

	if b := BandsOfHeight(10, 0); b != nil {
		t.Errorf("BandsOfHeight(10, 0) = %v, want nil", b)
	}
}
