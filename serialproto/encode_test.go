package serialproto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRDYFormatsVersionAndWPM(t *testing.T) {
	assert.Equal(t, "RDY:fw=1.2;morsewpm=20", RDY("1.2", 20))
}

func TestSTAWithoutFixUsesDashPlaceholder(t *testing.T) {
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "STA:--:--:--,0,0,----------,0,42", STA(now, false, 1, 2, "----------", false, 42))
}

func TestSTAWithFixFormatsTimeAndPosition(t *testing.T) {
	now := time.Date(2026, 8, 3, 9, 5, 7, 0, time.UTC)
	line := STA(now, true, 51.5, -0.1, "IO91wm", true, 7)
	assert.Equal(t, "STA:09:05:07,51.5000,-0.1000,IO91wm,1,7", line)
}

func TestMSGCharacterCRAndUnknown(t *testing.T) {
	assert.Equal(t, "MSG:A", MSG('A', false, false))
	assert.Equal(t, "MSG:<CR>", MSG(0, true, false))
	assert.Equal(t, "MSG:<UNK>", MSG(0x7E, false, true))
}

func TestTXCharacterAndCR(t *testing.T) {
	assert.Equal(t, "TX:Q", TX('Q', false))
	assert.Equal(t, "TX:<CR>", TX(0, true))
}

func TestERRFormatsReason(t *testing.T) {
	assert.Equal(t, "ERR:invalid slot", ERR("invalid slot"))
}

func TestSFTJoinsEightValues(t *testing.T) {
	soft := [8]float64{0, 1, 2.5, 3, 4, 5, 6, 7}
	assert.Equal(t, "SFT:0,1,2.5,3,4,5,6,7", SFT(soft))
}

func TestWFJoinsRow(t *testing.T) {
	assert.Equal(t, "WF:0,128,255", WF([]uint8{0, 128, 255}))
}

func TestJTAndPIFormatting(t *testing.T) {
	now := time.Date(2026, 8, 3, 6, 30, 0, 0, time.UTC)
	assert.Equal(t, "JT:06:30,-12,G0ABC IO91 23", JT(now, -12, "G0ABC IO91 23"))
	assert.Equal(t, "PI:06:30,5,G0ABC IO91 23", PI(now, 5, "G0ABC IO91 23"))
}

func TestMCHCharacterSpaceAndUnknown(t *testing.T) {
	assert.Equal(t, "MCH:K", MCH('K', false, false))
	assert.Equal(t, "MCH:<SP>", MCH(0, true, false))
	assert.Equal(t, "MCH:<UNK>", MCH(0, false, true))
}

func TestMLSLockedAndLost(t *testing.T) {
	assert.Equal(t, "MLS:18.5", MLS(18.5, true))
	assert.Equal(t, "MLS:LOST", MLS(0, false))
}

func TestMRKEachMarker(t *testing.T) {
	assert.Equal(t, "MRK:RED", MRK(MarkerRed))
	assert.Equal(t, "MRK:CYN", MRK(MarkerCyan))
	assert.Equal(t, "MRK:TX", MRK(MarkerTX))
	assert.Equal(t, "MRK:RX", MRK(MarkerRX))
}

func TestACKFormatsCommand(t *testing.T) {
	assert.Equal(t, "ACK:CMD:clear", ACK("CMD:clear"))
}
