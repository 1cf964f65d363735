package common

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Used on passwords read from the terminal once they are no longer needed.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
