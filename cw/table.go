package cw

// morseTable maps a dot/dash pattern to its decoded character. It is
// reproduced verbatim from the firmware's MORSE_TABLE, a wire-observable
// artifact, rather than drawn from any general-purpose Morse library, so
// that an unknown pattern is unambiguously the firmware's own unknown
// pattern and nothing else's.
var morseTable = map[string]byte{
	".-": 'A', "-...": 'B', "-.-.": 'C', "-..": 'D',
	".": 'E', "..-.": 'F', "--.": 'G', "....": 'H',
	"..": 'I', ".---": 'J', "-.-": 'K', ".-..": 'L',
	"--": 'M', "-.": 'N', "---": 'O', ".--.": 'P',
	"--.-": 'Q', ".-.": 'R', "...": 'S', "-": 'T',
	"..-": 'U', "...-": 'V', ".--": 'W', "-..-": 'X',
	"-.--": 'Y', "--..": 'Z',
	"-----": '0', ".----": '1', "..---": '2', "...--": '3',
	"....-": '4', ".....": '5', "-....": '6', "--...": '7',
	"---..": '8', "----.": '9',
	".-.-.-": '.', "--..--": ',', "..--..": '?', "-....-": '-',
	"-..-..": '/', ".-.-.": '+', "-...-": '=',
}

const unknownChar = '?'

func lookupMorse(symbol []byte) byte {
	if ch, ok := morseTable[string(symbol)]; ok {
		return ch
	}
	return unknownChar
}
