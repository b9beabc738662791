package server

// shuffledIDs returns a fresh uniform random permutation of ids using
// Fisher-Yates. The input slice is not modified.
func shuffledIDs(ids []uint) []uint {
	out := make([]uint, len(ids))
	copy(out, ids)
	for i := len(out) - 1; i > 0; i-- {
		j := randIndex(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
