package utils

// FilterSlice maps every element and keeps the ones the callback accepts.
func FilterSlice[S any, T any](list []S, f func(S) (T, bool)) []T {
	out := make([]T, 0, len(list))
	for _, s := range list {
		if t, ok := f(s); ok {
			out = append(out, t)
		}
	}
	return out
}

// Or returns the first non zero value.
func Or[T comparable](vals ...T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}

func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}

func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
