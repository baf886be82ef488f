package cw

// reverseTable maps a decoded character back to its dot/dash pattern. It is
// built once from morseTable so the transmitted side of a conversation never
// drifts from what this package's own receiver can decode.
var reverseTable = buildReverseTable()

func buildReverseTable() map[byte]string {
	rev := make(map[byte]string, len(morseTable))
	for pattern, ch := range morseTable {
		rev[ch] = pattern
	}
	return rev
}

// Symbol is one keyed or unkeyed interval of a transmitted Morse string,
// expressed in dit units at the standard 1:3 dot:dash and 1:3:7
// mark:letter-space:word-space ratios.
type Symbol struct {
	Key   bool
	Units float64
}

// EncodeText converts text into the key/space symbol sequence that sends it
// in Morse, consulting the table in reverse so anything this function emits
// is, character for character, something Decoder.Feed can lock onto and
// read back.
func EncodeText(text string) []Symbol {
	var out []Symbol
	atWordStart := true

	for _, r := range text {
		ch := toUpper(byte(r))
		if ch == ' ' {
			out = append(out, Symbol{Key: false, Units: 7})
			atWordStart = true
			continue
		}

		pattern, ok := reverseTable[ch]
		if !ok {
			continue
		}
		if !atWordStart {
			out = append(out, Symbol{Key: false, Units: 3})
		}
		atWordStart = false

		for i := 0; i < len(pattern); i++ {
			if i > 0 {
				out = append(out, Symbol{Key: false, Units: 1})
			}
			if pattern[i] == '.' {
				out = append(out, Symbol{Key: true, Units: 1})
			} else {
				out = append(out, Symbol{Key: true, Units: 3})
			}
		}
	}
	return out
}

func toUpper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 32
	}
	return b
}
