// Package engine is the single DSP-context run loop: it owns the
// decimator, the spectrum front end, the tone cache, the PPS cadence
// machine and the three mode decoders, and is fed raw ADC frames and PPS
// edges from outside while it emits dispatch.Envelopes for the dispatch
// context to format and send.
package engine

import (
	"log"
	"time"

	"github.com/rszemeti/RP2040-OOK48-Headless/beacon"
	"github.com/rszemeti/RP2040-OOK48-Headless/cw"
	"github.com/rszemeti/RP2040-OOK48-Headless/dispatch"
	"github.com/rszemeti/RP2040-OOK48-Headless/dsp"
	"github.com/rszemeti/RP2040-OOK48-Headless/gps"
	"github.com/rszemeti/RP2040-OOK48-Headless/ingest"
	"github.com/rszemeti/RP2040-OOK48-Headless/metrics"
	"github.com/rszemeti/RP2040-OOK48-Headless/ook48"
	"github.com/rszemeti/RP2040-OOK48-Headless/timing"
	"github.com/rszemeti/RP2040-OOK48-Headless/tonecache"
	"github.com/rszemeti/RP2040-OOK48-Headless/trace"
)

// ADCMidscale is the raw ADC's zero-signal reading (12-bit ADC centred
// on 2048).
const ADCMidscale = 2048.0

// Oversample is the number of raw ADC readings averaged into one
// decimated sample.
const Oversample = 4

// inBufferSize bounds how many undelivered raw frames Feed will queue
// before dropping, mirroring the reference receiver's IQData buffering
// (rx.Receiver.in).
const inBufferSize = 4

// morseWPMFloor and morseWPMCeil bound the Morse decoder's WPM search
// range; they are a decode-acquisition range, independent of
// dispatch.Settings.MorseWPM (which only paces CMD:morsetx transmission).
const (
	morseWPMFloor = 5.0
	morseWPMCeil  = 40.0
)

// Engine is the DSP context's channel-actor run loop. Configuration changes (SetMode, SetLocator, SetHalfRate) route
// through do() exactly as the reference's scanning receiver routes its
// Set* methods through its own op channel, so the per-frame hot path in
// run() never observes a partially-applied configuration change.
type Engine struct {
	in   chan []uint16
	ppsC chan ppsEdge
	op   chan func()

	stop    chan struct{}
	stopped chan struct{}

	out     *dispatch.Queue
	metrics *metrics.Metrics
	tracer  trace.Tracer

	decim    *ingest.Decimator
	spectrum *dsp.RealSpectrum[float64]
	cache    *tonecache.Cache
	cadence  *timing.PPS

	mode      tonecache.Mode
	params    tonecache.Params
	samples   []float64
	magnitude []float64

	ook48Dec  *ook48.Decoder
	beaconCfg beacon.Config
	beaconDec *beacon.Decoder
	cwDec     *cw.Decoder

	transmitting bool
	locator      gps.Locator
	hasFix       bool

	snrSum   float64
	snrCount int
}

// ppsEdge carries one 1PPS tick's GPS second-of-minute counter into the
// run loop.
type ppsEdge struct {
	secondOfMinute int
}

// NewEngine returns an Engine in OOK48 mode, ready for Start.
func NewEngine(out *dispatch.Queue, m *metrics.Metrics) *Engine {
	e := &Engine{
		out:      out,
		metrics:  m,
		tracer:   &trace.NoTracer{},
		cache:    tonecache.NewCache(),
		cadence:  timing.NewPPS(timing.WallClock{}),
		ook48Dec: ook48.NewDecoder(),
		cwDec:    cw.NewDecoder(cw.DefaultFrameRate, morseWPMFloor, morseWPMCeil),
	}
	e.reconfigure(tonecache.OOK48Params(false))
	return e
}

// Start spawns the run loop.
func (e *Engine) Start() {
	if e.in != nil {
		return
	}
	e.in = make(chan []uint16, inBufferSize)
	e.ppsC = make(chan ppsEdge, 1)
	e.op = make(chan func())
	e.stop = make(chan struct{})
	e.stopped = make(chan struct{})
	go e.run()
}

// Stop halts the run loop and waits for it to exit.
func (e *Engine) Stop() {
	if e.in == nil {
		return
	}
	close(e.stop)
	<-e.stopped
	close(e.in)
	close(e.ppsC)
	close(e.op)
	e.in = nil
}

func (e *Engine) do(f func()) {
	if e.op == nil {
		f()
		return
	}
	e.op <- f
}

// Feed hands the run loop one raw, oversampled ADC frame. It never blocks;
// a frame is dropped (and logged) if inBufferSize frames are already
// waiting for the loop, matching the reference receiver's IQData drop-on-full
// behaviour.
func (e *Engine) Feed(raw []uint16) {
	if e.in == nil {
		return
	}
	select {
	case e.in <- raw:
	default:
		log.Printf("engine: input frame dropped, consumer busy")
	}
}

// PPSEdge notifies the run loop of a 1PPS tick carrying the GPS
// second-of-minute counter.
func (e *Engine) PPSEdge(secondOfMinute int) {
	if e.ppsC == nil {
		return
	}
	select {
	case e.ppsC <- ppsEdge{secondOfMinute: secondOfMinute}:
	default:
	}
}

// SetMode switches the active decode mode, resetting every decoder's
// accumulated state.
func (e *Engine) SetMode(mode tonecache.Mode, halfRate bool) {
	e.do(func() {
		switch mode {
		case tonecache.OOK48:
			e.reconfigure(tonecache.OOK48Params(halfRate))
		case tonecache.JT4G:
			e.reconfigure(tonecache.JT4GParams())
			e.beaconCfg = beacon.JT4Config()
			e.beaconDec = beacon.NewDecoder(e.beaconCfg)
		case tonecache.PI4:
			e.reconfigure(tonecache.PI4Params())
			e.beaconCfg = beacon.PI4Config()
			e.beaconDec = beacon.NewDecoder(e.beaconCfg)
		case tonecache.Morse:
			e.reconfigure(tonecache.MorseParams())
			e.cwDec.Reset()
		}
	})
}

// SetHalfRate reconfigures OOK48 half-rate without disturbing any other
// mode's state; it is a no-op unless OOK48 is currently active.
func (e *Engine) SetHalfRate(halfRate bool) {
	e.do(func() {
		if e.mode == tonecache.OOK48 {
			e.reconfigure(tonecache.OOK48Params(halfRate))
		}
	})
}

// SetDecodeMode configures the OOK48 scalar-selection strategy
// (Normal/Alt/Rainscatter).
func (e *Engine) SetDecodeMode(mode ook48.DecodeMode) {
	e.do(func() {
		e.ook48Dec.Mode = mode
	})
}

// SetConfidenceThreshold configures the OOK48 confidence gate.
func (e *Engine) SetConfidenceThreshold(threshold float64) {
	e.do(func() {
		e.ook48Dec.ConfidenceThreshold = threshold
	})
}

// SetLocator configures the fix substituted into beacon/OOK48 locator
// tokens.
func (e *Engine) SetLocator(loc gps.Locator, hasFix bool) {
	e.do(func() {
		e.locator = loc
		e.hasFix = hasFix
	})
}

// Locator returns the most recently set fix and whether it is valid. The
// caller building a TX message substitutes a null-island placeholder when
// hasFix is false, since no fix has been set (the GPS NMEA parser that
// would call SetLocator is an external collaborator, not part of this
// module).
func (e *Engine) Locator() (loc gps.Locator, hasFix bool) {
	done := make(chan struct{})
	e.do(func() {
		loc, hasFix = e.locator, e.hasFix
		close(done)
	})
	<-done
	return loc, hasFix
}

// SetTiming configures the TX-advance and RX-retard delays applied to the
// next PPS edge, converting from the serial protocol's millisecond fields.
func (e *Engine) SetTiming(txAdvanceMs, rxRetardMs int) {
	e.do(func() {
		e.cadence.SetOffsets(time.Duration(rxRetardMs)*time.Millisecond, time.Duration(txAdvanceMs)*time.Millisecond)
	})
}

// SetTracer installs t to receive intermediate DSP values; pass
// &trace.NoTracer{} to disable (the default).
func (e *Engine) SetTracer(t trace.Tracer) {
	e.do(func() {
		e.tracer = t
	})
}

// SetTransmitting toggles between RX cadence (ArmRX) and TX cadence
// (ArmTX) on the next PPS edge.
func (e *Engine) SetTransmitting(transmitting bool) {
	e.do(func() {
		e.transmitting = transmitting
	})
}

func (e *Engine) reconfigure(params tonecache.Params) {
	e.mode = params.Mode
	e.params = params
	e.decim = ingest.NewDecimator(params.NumSamples, Oversample, ADCMidscale)
	e.spectrum = dsp.NewRealSpectrum[float64](params.NumSamples)
	e.samples = make([]float64, params.NumSamples)
	e.magnitude = make([]float64, params.NumBins)
	e.cadence.SetHalfRate(params.Mode == tonecache.OOK48 && params.CacheSize == 16)
	e.snrSum, e.snrCount = 0, 0
	if params.Mode == tonecache.OOK48 {
		e.cache.Reset(params, 0)
	}
}

func (e *Engine) run() {
	defer close(e.stopped)

	armTimer := time.NewTimer(time.Hour)
	armTimer.Stop()
	defer armTimer.Stop()

	freeRunTicker := time.NewTicker(50 * time.Millisecond)
	defer freeRunTicker.Stop()

	for {
		select {
		case <-e.stop:
			return

		case op := <-e.op:
			op()

		case edge := <-e.ppsC:
			e.onPPSEdge(edge, armTimer)

		case <-armTimer.C:
			e.cadence.BeginCapturing()

		case <-freeRunTicker.C:
			if e.cadence.CheckFreeRun() {
				e.cache.Reset(e.params, 0)
			}

		case raw := <-e.in:
			e.onFrame(raw)
		}
	}
}

func (e *Engine) onPPSEdge(edge ppsEdge, armTimer *time.Timer) {
	var delay time.Duration
	var resetSlot int
	if e.transmitting {
		delay, resetSlot = e.cadence.ArmTX(edge.secondOfMinute)
	} else {
		delay, resetSlot = e.cadence.ArmRX(edge.secondOfMinute)
	}
	if e.mode == tonecache.OOK48 {
		e.cache.Reset(e.params, resetSlot)
	}
	armTimer.Reset(delay)
}

func (e *Engine) onFrame(raw []uint16) {
	if !e.decim.Decimate(raw, e.samples) {
		return
	}
	e.metrics.SetAudioLevel("rx", float64(e.decim.AudioLevel()))

	switch e.mode {
	case tonecache.Morse:
		e.spectrum.Magnitudes(e.samples, e.params.StartBin, e.params.NumBins, e.magnitude)
		e.onMorseFrame()
	default:
		if e.cadence.State() != timing.Capturing {
			return
		}
		e.spectrum.Magnitudes(e.samples, e.params.StartBin, e.params.NumBins, e.magnitude)
		switch e.mode {
		case tonecache.OOK48:
			e.onOOK48Frame()
		case tonecache.JT4G, tonecache.PI4:
			e.onBeaconSecond()
		}
	}
}

func (e *Engine) onOOK48Frame() {
	ok := e.cache.WriteColumn(e.magnitude)
	if !ok {
		return
	}
	if e.cadence.FrameWritten(e.cache.Full()) != timing.FrameReady {
		return
	}
	defer e.cadence.AcknowledgeFrameReady()

	tol := e.params.Tol
	rows := make([][]float64, 2*tol)
	for i := range rows {
		bin := e.params.Tone0 - tol + i
		row := make([]float64, e.params.CacheSize)
		for slot := 0; slot < e.params.CacheSize; slot++ {
			if bin >= 0 && bin < len(e.magnitude) {
				row[slot] = e.cache.At(bin, slot)
			}
		}
		rows[i] = row
	}

	outcome := e.ook48Dec.Decode(rows)
	e.tracer.Trace("ook48", "confidence=%.3f kind=%d char=%q\n", outcome.Confidence, outcome.Kind, outcome.Char)
	e.out.Send(dispatch.Envelope{Tag: dispatch.SFTMessage, Soft: outcome.Soft[:]})

	switch outcome.Kind {
	case ook48.Decoded:
		e.metrics.RecordOOK48Outcome("decoded")
		e.out.Send(dispatch.Envelope{Tag: dispatch.Message, Char: outcome.Char})
	case ook48.LowConfidence:
		e.metrics.RecordOOK48Outcome("low_confidence")
		e.out.Send(dispatch.Envelope{Tag: dispatch.Message, Char: ook48.Unknown})
	case ook48.InvalidCode:
		e.metrics.RecordOOK48Outcome("invalid_code")
		e.out.Send(dispatch.Envelope{Tag: dispatch.Message, Char: 0})
	}
}

func (e *Engine) onBeaconSecond() {
	mode := "jt4"
	if e.mode == tonecache.PI4 {
		mode = "pi4"
	}
	if e.beaconDec.Full() {
		return
	}
	e.metrics.RecordBeaconAttempt(mode)
	snrDB, ok := e.beaconDec.AppendSecond(e.magnitude)
	if !ok {
		return
	}
	e.snrSum += snrDB
	e.snrCount++

	if !e.beaconDec.Full() {
		return
	}

	outcome := e.beaconDec.Decode()
	avgSNR := 0.0
	if e.snrCount > 0 {
		avgSNR = e.snrSum / float64(e.snrCount)
	}
	e.beaconDec.Reset()
	e.snrSum, e.snrCount = 0, 0
	e.tracer.Trace(mode, "kind=%d snr=%.1f text=%q\n", outcome.Kind, avgSNR, outcome.Text)

	if outcome.Kind != beacon.Message {
		return
	}
	e.metrics.RecordBeaconSuccess(mode)
	tag := dispatch.JTMessage
	if e.mode == tonecache.PI4 {
		tag = dispatch.PIMessage
	}
	e.out.Send(dispatch.Envelope{Tag: tag, Text: outcome.Text, SNRdB: avgSNR})
}

func (e *Engine) onMorseFrame() {
	tone := e.params.Tone0
	if tone < 0 || tone >= len(e.magnitude) {
		return
	}
	wasLocked := e.cwDec.IsLocked()

	for _, ev := range e.cwDec.Feed(e.magnitude[tone]) {
		switch ev.Kind {
		case cw.Char:
			e.metrics.RecordMorseChar()
			e.out.Send(dispatch.Envelope{Tag: dispatch.MorseMessage, Char: ev.Char})
		case cw.WordSep:
			e.out.Send(dispatch.Envelope{Tag: dispatch.MorseMessage, Char: ' '})
		case cw.Locked:
			e.metrics.SetMorseLock(true, ev.WPM)
			e.tracer.Trace("morse", "locked wpm=%.1f\n", ev.WPM)
			e.out.Send(dispatch.Envelope{Tag: dispatch.MorseLocked, WPM: ev.WPM})
		case cw.Lost:
			e.metrics.SetMorseLock(false, 0)
			e.out.Send(dispatch.Envelope{Tag: dispatch.MorseLost})
		}
	}

	if locked := e.cwDec.IsLocked(); locked != wasLocked && locked {
		e.metrics.SetMorseLock(true, e.cwDec.LockedWPM())
	}
}
