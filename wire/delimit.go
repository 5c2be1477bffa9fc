package wire

// Length-prefix composition for payloads whose size is unknown until they
// are written. The payload is encoded straight into the output buffer, then
// the varint byte length is spliced in front of it. This costs O(payload)
// data movement per nesting level instead of a pre-sizing pass; final bytes
// are varint(size) ++ payload either way.

// BeginDelimited records the offset where a delimited payload starts.
func (e *Encoder) BeginDelimited() int {
	return len(e.buf)
}

// EndDelimited inserts the varint length of everything written since mark
// at mark, shifting the payload right.
func (e *Encoder) EndDelimited(mark int) error {
	size := uint64(len(e.buf) - mark)
	var tmp [10]byte
	n := putVarint(tmp[:], size)
	return e.insert(mark, tmp[:n])
}

// putVarint writes the base-128 encoding of v into dst and returns the byte
// count. Byte-identical to VarintEncoder.EncodeVarint.
func putVarint(dst []byte, v uint64) int {
	n := 0
	for v >= 0x80 {
		dst[n] = byte(v) | 0x80
		v >>= 7
		n++
	}
	dst[n] = byte(v)
	return n + 1
}
