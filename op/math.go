package op

// Normalize maps any integer into [0, m).
func Normalize(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

// AddMod and SubMod assume both inputs already lie in [0, m).
func AddMod(a, b, m int) int {
	s := a + b
	if s >= m {
		s -= m
	}
	return s
}

func SubMod(a, b, m int) int {
	d := a - b
	if d < 0 {
		d += m
	}
	return d
}

// MulMod multiplies through int64 so the product cannot lose precision
// before the fold, whatever the core size.
func MulMod(a, b, m int) int {
	return int(int64(a) * int64(b) % int64(m))
}
