package serialproto

import (
	"strconv"
	"strings"

	"github.com/rszemeti/RP2040-OOK48-Headless/dispatch"
	"github.com/rszemeti/RP2040-OOK48-Headless/ook48"
)

// Actions are the dispatch-context side effects a command can trigger
// beyond a plain Settings field assignment.
type Actions interface {
	// EnterTX switches the OOK48 path from RX to TX, returning an error if
	// the receiver isn't in a state that can start a transmission.
	EnterTX() error
	// EnterRX switches back to RX, reporting whether it was already there.
	EnterRX() (alreadyRX bool)
	// SelectMessage changes the active TX message slot.
	SelectMessage(slot int)
	// Dashes keys the TX line continuously, for antenna/timing alignment,
	// until the next CMD:rx.
	Dashes()
	// MorseTX sends text as keyed Morse at the current morsewpm setting.
	MorseTX(text string)
	// Reboot restarts the device; SET:app and CMD:reboot both trigger it.
	Reboot()
	// Ident returns the RDY: line sent in reply to CMD:ident.
	Ident() string
	// SetTiming pushes SET:txadv/SET:rxret into the PPS cadence machine.
	SetTiming(txAdvanceMs, rxRetardMs int)
}

// Handler parses inbound SET:/CMD: lines, applies them to a Settings
// record, and returns the single ACK:/ERR: reply line, following the
// reference firmware's handleCommand response shapes.
type Handler struct {
	Settings *dispatch.Settings
	Actions  Actions
}

// NewHandler returns a Handler operating on settings via actions.
func NewHandler(settings *dispatch.Settings, actions Actions) *Handler {
	return &Handler{Settings: settings, Actions: actions}
}

// Handle parses and applies one inbound line (its trailing newline already
// stripped by the caller's line reader) and returns the reply line.
func (h *Handler) Handle(raw string) string {
	line := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(line, "SET:loclen:"):
		return h.setLocLen(strings.TrimPrefix(line, "SET:loclen:"))
	case strings.HasPrefix(line, "SET:decmode:"):
		return h.setDecMode(strings.TrimPrefix(line, "SET:decmode:"))
	case strings.HasPrefix(line, "SET:txadv:"):
		return h.setTXAdvance(strings.TrimPrefix(line, "SET:txadv:"))
	case strings.HasPrefix(line, "SET:rxret:"):
		return h.setRXRetard(strings.TrimPrefix(line, "SET:rxret:"))
	case strings.HasPrefix(line, "SET:halfrate:"):
		return h.setHalfRate(strings.TrimPrefix(line, "SET:halfrate:"))
	case strings.HasPrefix(line, "SET:morsewpm:"):
		return h.setIntField("SET:morsewpm", strings.TrimPrefix(line, "SET:morsewpm:"), 5, 40, &h.Settings.MorseWPM)
	case strings.HasPrefix(line, "SET:confidence:"):
		return h.setConfidence(strings.TrimPrefix(line, "SET:confidence:"))
	case strings.HasPrefix(line, "SET:app:"):
		return h.setApp(strings.TrimPrefix(line, "SET:app:"))
	case strings.HasPrefix(line, "SET:msg:"):
		return h.setMsg(strings.TrimPrefix(line, "SET:msg:"))
	case line == "CMD:tx":
		return h.cmdTX()
	case line == "CMD:rx":
		return h.cmdRX()
	case strings.HasPrefix(line, "CMD:txmsg:"):
		return h.cmdTXMsg(strings.TrimPrefix(line, "CMD:txmsg:"))
	case line == "CMD:dashes":
		h.Actions.Dashes()
		return ACK("CMD:dashes")
	case strings.HasPrefix(line, "CMD:morsetx:"):
		h.Actions.MorseTX(strings.TrimPrefix(line, "CMD:morsetx:"))
		return ACK("CMD:morsetx")
	case line == "CMD:ident":
		return h.Actions.Ident()
	case line == "CMD:clear":
		return ACK("CMD:clear")
	case line == "CMD:reboot":
		h.Actions.Reboot()
		return ACK("CMD:reboot")
	default:
		return "ERR:unknown command:" + line
	}
}

func (h *Handler) setIntField(name, value string, lo, hi int, field *int) string {
	v, err := strconv.Atoi(value)
	if err != nil || v < lo || v > hi {
		return ERR("value out of range")
	}
	*field = v
	return ACK(name)
}

func (h *Handler) setTXAdvance(value string) string {
	resp := h.setIntField("SET:txadv", value, 0, 999, &h.Settings.TXAdvanceMs)
	if !strings.HasPrefix(resp, "ERR:") {
		h.Actions.SetTiming(h.Settings.TXAdvanceMs, h.Settings.RXRetardMs)
	}
	return resp
}

func (h *Handler) setRXRetard(value string) string {
	resp := h.setIntField("SET:rxret", value, 0, 999, &h.Settings.RXRetardMs)
	if !strings.HasPrefix(resp, "ERR:") {
		h.Actions.SetTiming(h.Settings.TXAdvanceMs, h.Settings.RXRetardMs)
	}
	return resp
}

func (h *Handler) setLocLen(value string) string {
	v, err := strconv.Atoi(value)
	if err != nil || (v != 6 && v != 8 && v != 10) {
		return ERR("invalid locator length")
	}
	h.Settings.LocatorLen = v
	return ACK("SET:loclen")
}

func (h *Handler) setDecMode(value string) string {
	v, err := strconv.Atoi(value)
	if err != nil || v < 0 || v > 2 {
		return ERR("invalid decode mode")
	}
	h.Settings.DecodeMode = ook48.DecodeMode(v)
	return ACK("SET:decmode")
}

func (h *Handler) setHalfRate(value string) string {
	v, err := strconv.Atoi(value)
	if err != nil {
		return ERR("invalid halfrate value")
	}
	h.Settings.HalfRate = v != 0
	return ACK("SET:halfrate")
}

func (h *Handler) setConfidence(value string) string {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || v < 0.0 || v > 1.0 {
		return ERR("value out of range")
	}
	h.Settings.Confidence = v
	return ACK("SET:confidence")
}

func (h *Handler) setApp(value string) string {
	v, err := strconv.Atoi(value)
	if err != nil || v < 0 || v > 3 {
		return ERR("invalid app")
	}
	h.Settings.App = dispatch.App(v)
	h.Actions.Reboot()
	return ACK("SET:app - rebooting")
}

func (h *Handler) setMsg(rest string) string {
	idx := strings.IndexByte(rest, ':')
	if idx < 0 {
		return ERR("missing text")
	}
	slotStr, text := rest[:idx], rest[idx+1:]
	slot, err := strconv.Atoi(slotStr)
	if err != nil || slot < 0 || slot >= dispatch.MessageSlotCount {
		return ERR("invalid slot")
	}
	if text == "" {
		return ERR("missing text")
	}
	h.Settings.MessageSlots[slot] = text
	return ACK("SET:msg")
}

func (h *Handler) cmdTX() string {
	if err := h.Actions.EnterTX(); err != nil {
		return ERR(err.Error())
	}
	return ACK("CMD:tx")
}

func (h *Handler) cmdRX() string {
	if h.Actions.EnterRX() {
		return ACK("CMD:rx - already RX")
	}
	return ACK("CMD:rx")
}

func (h *Handler) cmdTXMsg(value string) string {
	slot, err := strconv.Atoi(value)
	if err != nil || slot < 0 || slot >= dispatch.MessageSlotCount {
		return ERR("invalid slot")
	}
	h.Actions.SelectMessage(slot)
	return ACK("CMD:txmsg")
}
