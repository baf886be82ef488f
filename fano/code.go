// Package fano implements the K=32, rate-1/2 Layland-Lushbaugh
// convolutional code and Fano sequential decoder used to protect JT4G and
// PI4 beacon payloads.
package fano

import "math/bits"

const (
	// ConstraintLength is K in the code's "K=32, rate 1/2" description.
	ConstraintLength = 32
	// TailBits is the number of known-zero flush bits appended after the
	// message (K-1).
	TailBits = ConstraintLength - 1

	Poly0 = uint32(0xF2D05351)
	Poly1 = uint32(0xE4613C47)
)

var parityTable [256]uint8

func init() {
	for i := range parityTable {
		parityTable[i] = uint8(bits.OnesCount8(uint8(i)) & 1)
	}
}

func parity32(v uint32) uint8 {
	return parityTable[byte(v)] ^ parityTable[byte(v>>8)] ^ parityTable[byte(v>>16)] ^ parityTable[byte(v>>24)]
}

// branch returns the encoder state reached by shifting bit into state, and
// the two channel bits the transition produces.
func branch(state uint32, bit bool) (next uint32, a, b bool) {
	next = state << 1
	if bit {
		next |= 1
	}
	a = parity32(next&Poly0) == 1
	b = parity32(next&Poly1) == 1
	return next, a, b
}
