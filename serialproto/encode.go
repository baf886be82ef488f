// Package serialproto implements the line-oriented serial protocol the
// dispatch context speaks to the outside world: one line per outbound
// telemetry event, and an ACK:/ERR: reply to every inbound SET:/CMD: line.
// Every format here reproduces the reference firmware's handleCommand/
// sendStatus output byte for byte.
package serialproto

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Marker identifies a waterfall annotation kind (MRK:).
type Marker int

const (
	MarkerRed Marker = iota
	MarkerCyan
	MarkerTX
	MarkerRX
)

func (m Marker) String() string {
	switch m {
	case MarkerRed:
		return "RED"
	case MarkerCyan:
		return "CYN"
	case MarkerTX:
		return "TX"
	case MarkerRX:
		return "RX"
	default:
		return "RED"
	}
}

// RDY formats the boot-complete line, also sent in reply to CMD:ident.
func RDY(version string, morseWPM int) string {
	return fmt.Sprintf("RDY:fw=%s;morsewpm=%d", version, morseWPM)
}

// STA formats the once-per-second status line. hasFix selects between a
// real time-of-day/position fix and the dash-filled placeholder the
// reference firmware sends before the GPS has a lock.
func STA(now time.Time, hasFix bool, lat, lon float64, locator string, txFlag bool, audioLevel int) string {
	tx := 0
	if txFlag {
		tx = 1
	}
	if !hasFix {
		return fmt.Sprintf("STA:--:--:--,0,0,----------,%d,%d", tx, audioLevel)
	}
	return fmt.Sprintf("STA:%02d:%02d:%02d,%.4f,%.4f,%s,%d,%d",
		now.Hour(), now.Minute(), now.Second(), lat, lon, locator, tx, audioLevel)
}

// MSG formats one OOK48-decoded character.
func MSG(ch byte, isCR, isUnknown bool) string {
	switch {
	case isUnknown:
		return "MSG:<UNK>"
	case isCR:
		return "MSG:<CR>"
	default:
		return "MSG:" + string(ch)
	}
}

// TX formats one OOK48 TX-echo character.
func TX(ch byte, isCR bool) string {
	if isCR {
		return "TX:<CR>"
	}
	return "TX:" + string(ch)
}

// ERR formats a decode or command error line. A single legacy decode-error
// character and a long reason string share the same prefix.
func ERR(reason string) string {
	return "ERR:" + reason
}

// SFT formats the eight soft OOK48 slot magnitudes.
func SFT(soft [8]float64) string {
	parts := make([]string, len(soft))
	for i, v := range soft {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "SFT:" + strings.Join(parts, ",")
}

// WF formats one waterfall row of 8-bit magnitudes.
func WF(row []uint8) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = strconv.Itoa(int(v))
	}
	return "WF:" + strings.Join(parts, ",")
}

// JT formats one JT4 decode.
func JT(now time.Time, snrDB float64, message string) string {
	return beaconLine("JT:", now, snrDB, message)
}

// PI formats one PI4 decode.
func PI(now time.Time, snrDB float64, message string) string {
	return beaconLine("PI:", now, snrDB, message)
}

func beaconLine(prefix string, now time.Time, snrDB float64, message string) string {
	return fmt.Sprintf("%s%02d:%02d,%.0f,%s", prefix, now.Hour(), now.Minute(), snrDB, message)
}

// MCH formats one decoded Morse character.
func MCH(ch byte, isSpace, isUnknown bool) string {
	switch {
	case isUnknown:
		return "MCH:<UNK>"
	case isSpace:
		return "MCH:<SP>"
	default:
		return "MCH:" + string(ch)
	}
}

// MLS formats the Morse lock-state line.
func MLS(wpm float64, locked bool) string {
	if !locked {
		return "MLS:LOST"
	}
	return fmt.Sprintf("MLS:%.1f", wpm)
}

// MRK formats a waterfall annotation line.
func MRK(m Marker) string {
	return "MRK:" + m.String()
}

// ACK formats a command-accepted reply line.
func ACK(command string) string {
	return "ACK:" + command
}
