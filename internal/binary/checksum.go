package binary

// Fletcher32 computes the Fletcher-32 checksum of data. Member payloads
// carry this checksum so bit flips that survive decompression are still
// detected.
//
// The input is treated as a sequence of 16-bit words in little-endian
// order; an odd trailing byte is zero-padded.
func Fletcher32(data []byte) uint32 {
	var sum1, sum2 uint32
	i := 0
	for ; i+1 < len(data); i += 2 {
		word := uint32(data[i]) | uint32(data[i+1])<<8
		sum1 = (sum1 + word) % 65535
		sum2 = (sum2 + sum1) % 65535
	}
	if i < len(data) {
		sum1 = (sum1 + uint32(data[i])) % 65535
		sum2 = (sum2 + sum1) % 65535
	}
	return sum2<<16 | sum1
}
