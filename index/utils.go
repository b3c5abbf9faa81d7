package index

import (
	"fmt"
	"math"
)

func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

func CheckDimension(dimension int, vec []float32) error {
	if dimension > 0 && len(vec) != dimension {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), dimension)
	}
	return nil
}

func CheckRecords(dimension int, records []Record) error {
	for _, rec := range records {
		if err := CheckDimension(dimension, rec.Embedding); err != nil {
			return fmt.Errorf("record %s: %w", rec.Id, err)
		}
	}
	return nil
}
