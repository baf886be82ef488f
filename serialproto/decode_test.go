package serialproto

import (
	"errors"
	"testing"

	"github.com/rszemeti/RP2040-OOK48-Headless/dispatch"
	"github.com/rszemeti/RP2040-OOK48-Headless/ook48"
	"github.com/stretchr/testify/assert"
)

type stubActions struct {
	txErr       error
	alreadyRX   bool
	selected    int
	dashesCount int
	morseText   string
	rebooted    bool
	identLine   string
	timingCalls int
	txAdvanceMs int
	rxRetardMs  int
}

func (s *stubActions) EnterTX() error         { return s.txErr }
func (s *stubActions) EnterRX() bool          { return s.alreadyRX }
func (s *stubActions) SelectMessage(slot int) { s.selected = slot }
func (s *stubActions) Dashes()                { s.dashesCount++ }
func (s *stubActions) MorseTX(text string)    { s.morseText = text }
func (s *stubActions) Reboot()                { s.rebooted = true }
func (s *stubActions) Ident() string          { return s.identLine }
func (s *stubActions) SetTiming(txAdvanceMs, rxRetardMs int) {
	s.timingCalls++
	s.txAdvanceMs = txAdvanceMs
	s.rxRetardMs = rxRetardMs
}

func newHandler() (*Handler, *dispatch.Settings, *stubActions) {
	settings := dispatch.DefaultSettings()
	actions := &stubActions{identLine: "RDY:fw=test;morsewpm=20"}
	return NewHandler(&settings, actions), &settings, actions
}

func TestHandleSetLocLen(t *testing.T) {
	h, s, _ := newHandler()
	assert.Equal(t, "ACK:SET:loclen", h.Handle("SET:loclen:8"))
	assert.Equal(t, 8, s.LocatorLen)

	assert.Equal(t, "ERR:invalid locator length", h.Handle("SET:loclen:7"))
}

func TestHandleSetDecMode(t *testing.T) {
	h, s, _ := newHandler()
	assert.Equal(t, "ACK:SET:decmode", h.Handle("SET:decmode:2"))
	assert.Equal(t, ook48.Rainscatter, s.DecodeMode)

	assert.Equal(t, "ERR:invalid decode mode", h.Handle("SET:decmode:3"))
}

func TestHandleSetTXAdvAndRXRetRangeChecked(t *testing.T) {
	h, s, a := newHandler()
	assert.Equal(t, "ACK:SET:txadv", h.Handle("SET:txadv:150"))
	assert.Equal(t, 150, s.TXAdvanceMs)
	assert.Equal(t, "ERR:value out of range", h.Handle("SET:txadv:1000"))

	assert.Equal(t, "ACK:SET:rxret", h.Handle("SET:rxret:0"))
	assert.Equal(t, "ERR:value out of range", h.Handle("SET:rxret:-1"))

	// Only the two accepted updates should have pushed into the timing
	// actor; the two rejected ones must not.
	assert.Equal(t, 2, a.timingCalls)
	assert.Equal(t, 150, a.txAdvanceMs)
	assert.Equal(t, 0, a.rxRetardMs)
}

func TestHandleSetHalfRate(t *testing.T) {
	h, s, _ := newHandler()
	assert.Equal(t, "ACK:SET:halfrate", h.Handle("SET:halfrate:1"))
	assert.True(t, s.HalfRate)
	assert.Equal(t, "ACK:SET:halfrate", h.Handle("SET:halfrate:0"))
	assert.False(t, s.HalfRate)
}

func TestHandleSetMorseWPMRangeChecked(t *testing.T) {
	h, s, _ := newHandler()
	assert.Equal(t, "ACK:SET:morsewpm", h.Handle("SET:morsewpm:25"))
	assert.Equal(t, 25, s.MorseWPM)
	assert.Equal(t, "ERR:value out of range", h.Handle("SET:morsewpm:4"))
	assert.Equal(t, "ERR:value out of range", h.Handle("SET:morsewpm:41"))
}

func TestHandleSetConfidenceRangeChecked(t *testing.T) {
	h, s, _ := newHandler()
	assert.Equal(t, "ACK:SET:confidence", h.Handle("SET:confidence:0.25"))
	assert.InDelta(t, 0.25, s.Confidence, 1e-9)
	assert.Equal(t, "ERR:value out of range", h.Handle("SET:confidence:1.5"))
}

func TestHandleSetAppTriggersReboot(t *testing.T) {
	h, s, a := newHandler()
	assert.Equal(t, "ACK:SET:app - rebooting", h.Handle("SET:app:3"))
	assert.Equal(t, dispatch.AppMorse, s.App)
	assert.True(t, a.rebooted)

	assert.Equal(t, "ERR:invalid app", h.Handle("SET:app:4"))
}

func TestHandleSetMsg(t *testing.T) {
	h, s, _ := newHandler()
	assert.Equal(t, "ACK:SET:msg", h.Handle("SET:msg:3:CQ CQ DE G0ABC"))
	assert.Equal(t, "CQ CQ DE G0ABC", s.MessageSlots[3])

	assert.Equal(t, "ERR:invalid slot", h.Handle("SET:msg:10:hello"))
	assert.Equal(t, "ERR:missing text", h.Handle("SET:msg:3"))
	assert.Equal(t, "ERR:missing text", h.Handle("SET:msg:3:"))
}

func TestHandleCmdTXSuccessAndFailure(t *testing.T) {
	h, _, a := newHandler()
	assert.Equal(t, "ACK:CMD:tx", h.Handle("CMD:tx"))

	a.txErr = errors.New("not in OOK48 RX mode")
	assert.Equal(t, "ERR:not in OOK48 RX mode", h.Handle("CMD:tx"))
}

func TestHandleCmdRXReportsAlreadyRX(t *testing.T) {
	h, _, a := newHandler()
	assert.Equal(t, "ACK:CMD:rx", h.Handle("CMD:rx"))

	a.alreadyRX = true
	assert.Equal(t, "ACK:CMD:rx - already RX", h.Handle("CMD:rx"))
}

func TestHandleCmdTXMsg(t *testing.T) {
	h, _, a := newHandler()
	assert.Equal(t, "ACK:CMD:txmsg", h.Handle("CMD:txmsg:4"))
	assert.Equal(t, 4, a.selected)

	assert.Equal(t, "ERR:invalid slot", h.Handle("CMD:txmsg:99"))
}

func TestHandleCmdDashesAndMorseTX(t *testing.T) {
	h, _, a := newHandler()
	assert.Equal(t, "ACK:CMD:dashes", h.Handle("CMD:dashes"))
	assert.Equal(t, 1, a.dashesCount)

	assert.Equal(t, "ACK:CMD:morsetx", h.Handle("CMD:morsetx:CQ CQ"))
	assert.Equal(t, "CQ CQ", a.morseText)
}

func TestHandleCmdIdentClearReboot(t *testing.T) {
	h, _, a := newHandler()
	assert.Equal(t, "RDY:fw=test;morsewpm=20", h.Handle("CMD:ident"))
	assert.Equal(t, "ACK:CMD:clear", h.Handle("CMD:clear"))
	assert.Equal(t, "ACK:CMD:reboot", h.Handle("CMD:reboot"))
	assert.True(t, a.rebooted)
}

func TestHandleUnknownCommand(t *testing.T) {
	h, _, _ := newHandler()
	assert.Equal(t, "ERR:unknown command:FOO:bar", h.Handle("FOO:bar"))
}
