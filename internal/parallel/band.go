package parallel

// Band is a half-open range of rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// Bands splits height rows into at most n contiguous, disjoint bands that
// cover [0, height). Band heights differ by at most one row, larger bands
// first. It returns nil when height or n is not positive.
func Bands(height, n int) []Band {
	if height <= 0 || n <= 0 {
		return nil
	}
	n = min(n, height)

	bands := make([]Band, n)
	base, extra := height/n, height%n
	y := 0
	for i := range bands {
		rows := base
		if i < extra {
			rows++
		}
		bands[i] = Band{Y0: y, Y1: y + rows}
		y += rows
	}
	return bands
}

// BandsOfHeight splits height rows into bands of rows rows each; the last
// band may be shorter. It returns nil when height or rows is not positive.
func BandsOfHeight(height, rows int) []Band {
	if height <= 0 || rows <= 0 {
		return nil
	}
	bands := make([]Band, 0, (height+rows-1)/rows)
	for y := 0; y < height; y += rows {
		bands = append(bands, Band{Y0: y, Y1: min(y+rows, height)})
	}
	return bands
}
