package utils

// Deref は、ポインタを安全にデリファレンスします。
// ポインタがnilの場合はゼロ値を返します。
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// Ptr は値のポインタを返します。
func Ptr[T any](v T) *T {
	return &v
}
