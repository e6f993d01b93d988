package filter

// SetHistory overwrites the history registers for testing.
func (f *IIR[F]) SetHistory(h1, h2 F) {
	f.hist1, f.hist2 = h1, h2
}

// History returns the history registers for testing.
func (f *IIR[F]) History() (h1, h2 F) {
	return f.hist1, f.hist2
}
