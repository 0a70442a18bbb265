package utils

// Second drops the first of two results.
func Second[T any](_ any, t T) T { return t }

// Unpack2 returns the first two elements of s, zero values standing in for
// the missing ones.
func Unpack2[S ~[]T, T any](s S) (first, second T) {
	if len(s) > 0 {
		first = s[0]
	}

	if len(s) > 1 {
		second = s[1]
	}

	return first, second
}
