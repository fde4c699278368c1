package vector

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// formatEmbedding converts a float64 slice to pgvector text format: "[0.1,0.2,0.3]"
func formatEmbedding(embedding []float64) string {
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// encodeEmbedding packs an embedding as little-endian float64 values.
func encodeEmbedding(embedding []float64) []byte {
	buf := make([]byte, 8*len(embedding))
	for i, v := range embedding {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func decodeEmbedding(buf []byte) ([]float64, error) {
	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 8", len(buf))
	}
	result := make([]float64, len(buf)/8)
	for i := range result {
		result[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return result, nil
}
