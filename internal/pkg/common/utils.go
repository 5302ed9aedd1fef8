package common

// ClampInt 將整數限制在 [lo, hi] 區間內
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampNonNegative 將負值歸零
func ClampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
