package ook48

// encode4from8 enumerates all C(8,4)=70 four-in-eight constant-weight words
// in ascending lexicographic order. Index i is the character code
// produced by Encode; the value is the byte transmitted MSB-first.
//
// Wire-observable; must match the reference firmware exactly.
var encode4from8 = [70]uint8{
	15, 23, 27, 29, 30, 39, 43, 45, 46, 51,
	53, 54, 57, 58, 60, 71, 75, 77, 78, 83,
	85, 86, 89, 90, 92, 99, 101, 102, 105, 106,
	108, 113, 114, 116, 120, 135, 139, 141, 142, 147,
	149, 150, 153, 154, 156, 163, 165, 166, 169, 170,
	172, 177, 178, 180, 184, 195, 197, 198, 201, 202,
	204, 209, 210, 212, 216, 225, 226, 228, 232, 240,
}

// decode4from8 inverts encode4from8: index is a received byte, value is the
// decoded character code (13 = CR/end-of-message, 126 = the unused codes
// at table indices 65-69, and every byte that is not a table word is 0,
// meaning "no character").
//
// Wire-observable; must match the reference firmware exactly.
var decode4from8 = [256]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 13, 0, 0, 0, 0,
	0, 0, 0, 32, 0, 0, 0, 33, 0, 34,
	35, 0, 0, 0, 0, 0, 0, 0, 0, 36,
	0, 0, 0, 37, 0, 38, 39, 0, 0, 0,
	0, 40, 0, 41, 42, 0, 0, 43, 44, 0,
	45, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 46, 0, 0, 0, 47, 0, 48, 49, 0,
	0, 0, 0, 50, 0, 51, 52, 0, 0, 53,
	54, 0, 55, 0, 0, 0, 0, 0, 0, 56,
	0, 57, 58, 0, 0, 59, 60, 0, 61, 0,
	0, 0, 0, 62, 63, 0, 64, 0, 0, 0,
	65, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 66, 0, 0, 0, 67,
	0, 68, 69, 0, 0, 0, 0, 70, 0, 71,
	72, 0, 0, 73, 74, 0, 75, 0, 0, 0,
	0, 0, 0, 76, 0, 77, 78, 0, 0, 79,
	80, 0, 81, 0, 0, 0, 0, 82, 83, 0,
	84, 0, 0, 0, 85, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 86, 0, 87, 88, 0,
	0, 89, 90, 0, 91, 0, 0, 0, 0, 92,
	93, 0, 94, 0, 0, 0, 95, 0, 0, 0,
	0, 0, 0, 0, 0, 126, 126, 0, 126, 0,
	0, 0, 126, 0, 0, 0, 0, 0, 0, 0,
	126, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0,
}

// Reserved decode outputs.
const (
	EndOfMessage = 0x0D
	Unknown      = 0x7E
)

// CharacterIndex maps an ASCII codepoint to its encode4from8 index.
func CharacterIndex(ch byte) int {
	switch {
	case ch == 0x0D || ch == 0x0A:
		return 0
	case ch >= 0x20 && ch <= 0x5F:
		return int(ch) - 31
	case ch >= 0x61 && ch <= 0x7A:
		return int(ch) - 63
	default:
		return 69
	}
}

// Encode returns the wire byte for the given ASCII character.
func Encode(ch byte) uint8 {
	return encode4from8[CharacterIndex(ch)]
}
