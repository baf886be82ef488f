package ook48

import (
	"strings"

	"github.com/rszemeti/RP2040-OOK48-Headless/gps"
)

// LocatorToken is the placeholder byte a message template uses to request
// the current Maidenhead locator be substituted at transmit-compile time.
const LocatorToken = 0x86

// CompileMessage expands a locator token in template (if present) and
// prefixes the message with a CR, matching the reference firmware's
// TxInit/visualTxMessage assembly: the first character sent is always CR,
// so a receiver always sees an end-of-message boundary ahead of a fresh
// transmission.
func CompileMessage(template string, locator gps.Locator) string {
	expanded := strings.ReplaceAll(template, string([]byte{LocatorToken}), locator.String())
	return "\r" + expanded
}

// Encoder is the symbol-paced OOK48 transmitter. One Tick call
// corresponds to one TXTicker symbol period; it returns the key-line state
// for that bit and, once every 8 bits, the character that was just fully
// sent.
type Encoder struct {
	chars    []byte
	symbols  []uint8
	halfRate bool

	charIndex int
	bitIndex  int
}

// NewEncoder compiles message into its wire byte stream and returns an
// Encoder ready to transmit it, repeating from the second character (index
// 1) once the stream is exhausted — the leading CR is only sent once, as in
// the reference firmware.
func NewEncoder(message string, halfRate bool) *Encoder {
	chars := []byte(message)
	symbols := make([]uint8, len(chars))
	for i, ch := range chars {
		symbols[i] = Encode(ch)
	}
	return &Encoder{chars: chars, symbols: symbols, halfRate: halfRate}
}

// SetHalfRate reconfigures half-rate repetition without recompiling the
// message.
func (e *Encoder) SetHalfRate(halfRate bool) {
	e.halfRate = halfRate
}

// Tick advances the encoder by one symbol period. secondIsOdd is only
// consulted in half-rate mode, where a character is repeated verbatim on
// the even second of its pair and only advances to the next character on
// the odd second. It returns the key-line bit for this tick and, if
// the 8th bit of a character was just sent, the character and true.
func (e *Encoder) Tick(secondIsOdd bool) (key bool, sentChar byte, sent bool) {
	if len(e.symbols) == 0 {
		return false, 0, false
	}

	if e.charIndex >= len(e.symbols) {
		e.charIndex = 1
		if len(e.symbols) == 1 {
			e.charIndex = 0
		}
		e.bitIndex = 0
	}

	advance := !e.halfRate || secondIsOdd

	if e.bitIndex == 8 {
		sentChar = e.chars[e.charIndex]
		e.bitIndex = 0
		if advance {
			e.charIndex++
		}
		return false, sentChar, true
	}

	key = (e.symbols[e.charIndex]<<uint(e.bitIndex))&0x80 != 0
	e.bitIndex++
	if e.bitIndex > 8 {
		e.bitIndex = 0
	}
	return key, 0, false
}
