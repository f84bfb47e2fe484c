package video

// MirrorInPlace flips the frame horizontally by swapping pixels within
// each row. The mutation happens in the frame's own buffer, so callers
// must not pass a precious frame (the caller owns that check; this
// function has no way to tell who else references the buffer).
func MirrorInPlace(f *Frame) {
	if f.Validate() != nil {
		return
	}
	for y := 0; y < f.Height; y++ {
		row := f.Pix[y*f.Stride : y*f.Stride+4*f.Width]
		for l, r := 0, 4*(f.Width-1); l < r; l, r = l+4, r-4 {
			row[l], row[r] = row[r], row[l]
			row[l+1], row[r+1] = row[r+1], row[l+1]
			row[l+2], row[r+2] = row[r+2], row[l+2]
			row[l+3], row[r+3] = row[r+3], row[l+3]
		}
	}
}
