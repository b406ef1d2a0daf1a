// package conditional
//
// small expression helpers go does not ship with
package conditional

// Ternary : returns a when cond holds, b otherwise
func Ternary[T any](cond bool, a T, b T) T {
	if cond {
		return a
	}
	return b
}

// Coalesce : first non zero value, zero value if all are zero
func Coalesce[T comparable](vals ...T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}
