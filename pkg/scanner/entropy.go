package scanner

import (
	"math"

	"github.com/montanaflynn/stats"
)

// DefaultEntropyWindow is the block size for entropy profiles.
const DefaultEntropyWindow = 256

// EntropyPoint is the entropy of one window.
type EntropyPoint struct {
	Offset  int64
	Entropy float64
}

// EntropyProfile summarizes the byte entropy of a blob over fixed
// windows. High-entropy regions in otherwise structured data usually
// mean compression or encryption, which is exactly where signature
// scanning goes blind, so the profile is reported alongside matches.
type EntropyProfile struct {
	WindowSize int
	Points     []EntropyPoint
	Mean       float64
	StdDev     float64
	Max        float64
	MaxOffset  int64
}

// Entropy computes the Shannon entropy of data in bits per byte: 0 for
// constant data, 8 for uniformly distributed bytes.
func Entropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	var hist [256]int
	for _, b := range data {
		hist[b]++
	}

	n := float64(len(data))
	entropy := 0.0
	for _, count := range hist {
		if count == 0 {
			continue
		}
		p := float64(count) / n
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// ComputeEntropyProfile splits content into fixed-size windows and
// computes the entropy of each, with summary statistics over the
// windows. A non-positive window selects DefaultEntropyWindow; content
// shorter than one window is a single window.
func ComputeEntropyProfile(content []byte, window int) *EntropyProfile {
	if window <= 0 {
		window = DefaultEntropyWindow
	}

	profile := &EntropyProfile{WindowSize: window}
	if len(content) == 0 {
		return profile
	}

	values := make([]float64, 0, len(content)/window+1)
	for off := 0; off < len(content); off += window {
		end := off + window
		if end > len(content) {
			end = len(content)
		}

		e := Entropy(content[off:end])
		profile.Points = append(profile.Points, EntropyPoint{Offset: int64(off), Entropy: e})
		values = append(values, e)

		if e > profile.Max {
			profile.Max = e
			profile.MaxOffset = int64(off)
		}
	}

	if mean, err := stats.Mean(values); err == nil {
		profile.Mean = mean
	}
	if stddev, err := stats.StandardDeviation(values); err == nil {
		profile.StdDev = stddev
	}

	return profile
}
