package embedding

import "math"

// CosineSimilarity returns 0 for mismatched lengths or zero vectors.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineDistance is 1 - cosine similarity, in [0, 2].
func CosineDistance(a, b []float64) float64 {
	d := 1 - CosineSimilarity(a, b)
	if d < 0 {
		return 0
	}
	return d
}

// EuclideanDistance compares the L2-normalised forms of a and b, so the
// result lies in [0, 2].
func EuclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) {
		return 2
	}
	na, nb := Normalize(a), Normalize(b)
	var sum float64
	for i := range na {
		diff := na[i] - nb[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// Normalize returns a unit-length copy of v. Zero vectors come back as-is.
func Normalize(v []float64) []float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	out := make([]float64, len(v))
	copy(out, v)
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i := range out {
		out[i] /= norm
	}
	return out
}
