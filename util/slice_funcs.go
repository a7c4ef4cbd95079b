package util

// Contains returns whether the given slice contains the given element.
func Contains[T comparable](slice []T, elem T) bool {
	for _, x := range slice {
		if x == elem {
			return true
		}
	}

	return false
}

// Map returns a new slice whose elements are the results of applying f to
// the elements of the given slice, in order.
func Map[T, R any](slice []T, f func(T) R) []R {
	result := make([]R, len(slice))
	for i, elem := range slice {
		result[i] = f(elem)
	}

	return result
}
