package xorcipher

// Table holds one 256-entry lookup table per key byte: even positions go
// through even, odd positions through odd.
type Table struct {
	even [256]byte
	odd  [256]byte
}

// NewTable precomputes the lookup tables for key.
func NewTable(key Key) *Table {
	t := &Table{}
	for i := 0; i < 256; i++ {
		t.even[i] = byte(i) ^ key[0]
		t.odd[i] = byte(i) ^ key[1]
	}
	return t
}

// Apply writes the translated src into dst. The output is byte-identical to
// TransformInto with the same key.
func (t *Table) Apply(dst, src []byte) {
	_ = dst[:len(src)]
	for i, b := range src {
		if i&1 == 0 {
			dst[i] = t.even[b]
		} else {
			dst[i] = t.odd[b]
		}
	}
}

// Transform returns a newly allocated translated copy of src.
func (t *Table) Transform(src []byte) []byte {
	out := make([]byte, len(src))
	t.Apply(out, src)
	return out
}
