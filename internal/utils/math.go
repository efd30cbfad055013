package util

import "golang.org/x/exp/constraints"

func Max[T constraints.Ordered](a T, b T) T {
	if a >= b {
		return a
	}
	return b
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo[T constraints.Integer](n T) bool {
	return n > 0 && n&(n-1) == 0
}

// LowBits keeps the lowest depth bits of v.
func LowBits[T constraints.Unsigned](v T, depth int) T {
	return v & (T(1)<<depth - 1)
}

// BitAt returns bit pos of v (0 or 1).
func BitAt[T constraints.Integer](v T, pos int) T {
	return (v >> pos) & 1
}
