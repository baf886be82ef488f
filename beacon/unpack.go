package beacon

import "encoding/binary"

// jt4Digit and pi4Digit implement the base-42/base-38 character mappings.
func jt4Digit(d uint32) byte {
	switch {
	case d <= 9:
		return byte('0' + d)
	case d <= 35:
		return byte('A' + (d - 10))
	default:
		const extra = " +-./?"
		if int(d-36) < len(extra) {
			return extra[d-36]
		}
		return '?'
	}
}

func pi4Digit(d uint64) byte {
	switch {
	case d <= 9:
		return byte('0' + d)
	case d <= 35:
		return byte('A' + byte(d-10))
	case d == 36:
		return ' '
	case d == 37:
		return '/'
	default:
		return '?'
	}
}

func expandBase42(v uint32, digits int) []byte {
	out := make([]byte, digits)
	for i := digits - 1; i >= 0; i-- {
		out[i] = jt4Digit(v % 42)
		v /= 42
	}
	return out
}

// UnpackJT4 unpacks a JT4 message: the 12-byte Fano output splits into
// three big-endian 32-bit integers n1, n2, n3, each expanded in base 42
// to produce 5, 4 and 4 characters respectively, for 13 characters total.
func UnpackJT4(dec [12]byte) string {
	n1 := binary.BigEndian.Uint32(dec[0:4])
	n2 := binary.BigEndian.Uint32(dec[4:8])
	n3 := binary.BigEndian.Uint32(dec[8:12])

	out := make([]byte, 0, 13)
	out = append(out, expandBase42(n1, 5)...)
	out = append(out, expandBase42(n2, 4)...)
	out = append(out, expandBase42(n3, 4)...)
	return string(out)
}

// UnpackPI4 unpacks a PI4 message: form a 64-bit unsigned value
// from the 8-byte Fano output, discard the low 22 bits, then expand the
// remainder in base 38 to 8 characters.
func UnpackPI4(dec [8]byte) string {
	v := binary.BigEndian.Uint64(dec[:])
	v >>= 22

	out := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		out[i] = pi4Digit(v % 38)
		v /= 38
	}
	return string(out)
}
