// ABOUTME: Copying slice helpers used for copy-on-write updates.
// ABOUTME: None of them modify their input slice.
package routines

func appendCopy[T any](items []T, v T) []T {
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, v)
}

func replaceAt[T any](items []T, i int, v T) []T {
	out := make([]T, len(items))
	copy(out, items)
	out[i] = v
	return out
}

func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
