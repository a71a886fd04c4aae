package indicators

// VolumeProfile buckets closes into equal price bins across the window's
// [min(low), max(high)] range, summing volume per bin.
type VolumeProfile struct {
	PriceLevels []float64 `json:"priceLevels"`
	Volumes     []float64 `json:"volumes"`
}

// minPriceRange floors degenerate zero-range windows so the bin size never
// divides by zero.
const minPriceRange = 0.0001

// ComputeVolumeProfile builds a VolumeProfile with the given bin count.
// The bin sum of volumes equals the total input volume exactly.
func ComputeVolumeProfile(highs, lows, closes, volumes []float64, bins int) VolumeProfile {
	if len(closes) == 0 || bins <= 0 {
		return VolumeProfile{}
	}

	minPrice := lowest(lows)
	maxPrice := highest(highs)
	priceRange := maxPrice - minPrice
	if priceRange == 0 {
		priceRange = minPriceRange
	}
	binSize := priceRange / float64(bins)

	vp := VolumeProfile{
		PriceLevels: make([]float64, bins),
		Volumes:     make([]float64, bins),
	}
	for i := range vp.PriceLevels {
		vp.PriceLevels[i] = minPrice + float64(i)*binSize + binSize/2
	}

	for i, price := range closes {
		bin := int((price - minPrice) / binSize)
		if bin >= bins {
			bin = bins - 1
		}
		if bin < 0 {
			bin = 0
		}
		vp.Volumes[bin] += volumes[i]
	}
	return vp
}
