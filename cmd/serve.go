package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tarm/serial"

	"github.com/rszemeti/RP2040-OOK48-Headless/cw"
	"github.com/rszemeti/RP2040-OOK48-Headless/dispatch"
	"github.com/rszemeti/RP2040-OOK48-Headless/engine"
	"github.com/rszemeti/RP2040-OOK48-Headless/gps"
	"github.com/rszemeti/RP2040-OOK48-Headless/metrics"
	"github.com/rszemeti/RP2040-OOK48-Headless/ook48"
	"github.com/rszemeti/RP2040-OOK48-Headless/serialproto"
	"github.com/rszemeti/RP2040-OOK48-Headless/timing"
	"github.com/rszemeti/RP2040-OOK48-Headless/tonecache"
	"github.com/rszemeti/RP2040-OOK48-Headless/trace"
)

var serveFlags = struct {
	audioSource string
	serialPort  string
	serialBaud  int
	metricsAddr string
}{}

// serveCmd is the production daemon: Pulseaudio capture feeding an
// engine.Engine, a tarm/serial line connection speaking serialproto to the
// outside world, and an optional Prometheus /metrics endpoint.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the receiver/transmitter core against a serial control link",
	Run:   runWithCtx(runServe),
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveFlags.audioSource, "source", "", "Pulseaudio source name (default source if empty)")
	serveCmd.Flags().StringVar(&serveFlags.serialPort, "serial", "/dev/ttyACM0", "serial device speaking the SET:/CMD:/line protocol")
	serveCmd.Flags().IntVar(&serveFlags.serialBaud, "baud", 115200, "serial baud rate")
	serveCmd.Flags().StringVar(&serveFlags.metricsAddr, "metrics", "", "address to serve /metrics on (disabled if empty)")
}

func appMode(app dispatch.App) tonecache.Mode {
	switch app {
	case dispatch.AppJT4:
		return tonecache.JT4G
	case dispatch.AppPI4:
		return tonecache.PI4
	case dispatch.AppMorse:
		return tonecache.Morse
	default:
		return tonecache.OOK48
	}
}

func modeParams(mode tonecache.Mode, halfRate bool) tonecache.Params {
	switch mode {
	case tonecache.JT4G:
		return tonecache.JT4GParams()
	case tonecache.PI4:
		return tonecache.PI4Params()
	case tonecache.Morse:
		return tonecache.MorseParams()
	default:
		return tonecache.OOK48Params(halfRate)
	}
}

func runServe(ctx context.Context, tracer trace.Tracer, cmd *cobra.Command, args []string) {
	port, err := serial.OpenPort(&serial.Config{Name: serveFlags.serialPort, Baud: serveFlags.serialBaud})
	if err != nil {
		log.Fatal(err)
	}
	defer port.Close()

	m := metrics.New()
	out := dispatch.NewQueue(dispatch.DefaultQueueCapacity)
	eng := engine.NewEngine(out, m)
	eng.SetTracer(tracer)
	eng.Start()
	defer eng.Stop()

	settings := dispatch.DefaultSettings()
	actions := newServeActions(eng, &settings, port)

	if serveFlags.metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Printf("serving /metrics on %s", serveFlags.metricsAddr)
			log.Println(http.ListenAndServe(serveFlags.metricsAddr, mux))
		}()
	}

	params := modeParams(appMode(settings.App), settings.HalfRate)
	feeder := newPulseFrameFeeder(eng, params.NumSamples*engine.Oversample)
	client, sampleRate, err := startCapture(ctx, serveFlags.audioSource, feeder)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()
	log.Printf("capturing at %d Hz", sampleRate)

	ppsTicker := time.NewTicker(time.Second)
	defer ppsTicker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ppsTicker.C:
				eng.PPSEdge(now.Second())
			}
		}
	}()

	handler := serialproto.NewHandler(&settings, actions)
	go serveCommandLines(ctx, port, handler)

	fmt.Fprintln(port, actions.Ident())
	drainEnvelopes(ctx, out)
}

// serveCommandLines reads newline-terminated SET:/CMD: lines from port,
// applies each through handler, and writes back the single ACK:/ERR: reply
// line, matching the reference's line-oriented serial protocol.
func serveCommandLines(ctx context.Context, port *serial.Port, handler *serialproto.Handler) {
	scanner := bufio.NewScanner(port)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		reply := handler.Handle(scanner.Text())
		fmt.Fprintln(port, reply)
	}
}

// serveActions implements serialproto.Actions against a live engine.Engine
// and the serial port used to echo the symbol-paced TX key-line state.
type serveActions struct {
	eng      *engine.Engine
	settings *dispatch.Settings
	port     *serial.Port

	mu           sync.Mutex
	selectedSlot int
	txCancel     context.CancelFunc
}

func newServeActions(eng *engine.Engine, settings *dispatch.Settings, port *serial.Port) *serveActions {
	return &serveActions{eng: eng, settings: settings, port: port}
}

func (a *serveActions) EnterTX() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.txCancel != nil {
		return fmt.Errorf("already transmitting")
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.txCancel = cancel
	a.eng.SetTransmitting(true)
	go a.runOOK48TX(ctx, a.settings.MessageSlots[a.selectedSlot])
	return nil
}

func (a *serveActions) EnterRX() (alreadyRX bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.txCancel == nil {
		return true
	}
	a.txCancel()
	a.txCancel = nil
	a.eng.SetTransmitting(false)
	return false
}

func (a *serveActions) SelectMessage(slot int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selectedSlot = slot
}

// Dashes keys the TX line continuously until the next EnterRX, for antenna
// and timing alignment.
func (a *serveActions) Dashes() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.txCancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.txCancel = cancel
	a.eng.SetTransmitting(true)
	go a.runDashes(ctx)
}

func (a *serveActions) MorseTX(text string) {
	go a.runMorseTX(text)
}

func (a *serveActions) Reboot() {
	a.mu.Lock()
	if a.txCancel != nil {
		a.txCancel()
		a.txCancel = nil
	}
	a.mu.Unlock()

	*a.settings = dispatch.DefaultSettings()
	a.eng.SetTransmitting(false)
	a.eng.SetMode(appMode(a.settings.App), a.settings.HalfRate)
	a.eng.SetDecodeMode(a.settings.DecodeMode)
	a.eng.SetConfidenceThreshold(a.settings.Confidence)
	a.eng.SetTiming(a.settings.TXAdvanceMs, a.settings.RXRetardMs)
}

func (a *serveActions) Ident() string {
	return serialproto.RDY(formatVersion(), a.settings.MorseWPM)
}

// SetTiming pushes SET:txadv/SET:rxret into the engine's PPS cadence
// machine immediately, rather than waiting for the next reboot.
func (a *serveActions) SetTiming(txAdvanceMs, rxRetardMs int) {
	a.eng.SetTiming(txAdvanceMs, rxRetardMs)
}

func (a *serveActions) runOOK48TX(ctx context.Context, messageTemplate string) {
	loc, hasFix := a.eng.Locator()
	if !hasFix {
		loc = gps.Fix(0, 0, gps.Length6)
	}
	message := ook48.CompileMessage(messageTemplate, loc)
	enc := ook48.NewEncoder(message, a.settings.HalfRate)
	// Eight key bits plus one key-release tick per character: nine ticks,
	// one character, per second in normal and half-rate operation alike.
	const ticksPerSecond = 9
	a.runSymbolTicker(ctx, time.Second/ticksPerSecond, ticksPerSecond, func(secondIsOdd bool) {
		_, sentChar, sent := enc.Tick(secondIsOdd)
		if sent {
			fmt.Fprintln(a.port, serialproto.TX(sentChar, sentChar == '\r'))
		}
	})
}

func (a *serveActions) runDashes(ctx context.Context) {
	fmt.Fprintln(a.port, "KEY:1")
	<-ctx.Done()
	fmt.Fprintln(a.port, "KEY:0")
}

// runSymbolTicker ticks every period, invoking onTick with whether the
// current cadence second is odd, and rolling over every stepsPerSecond
// ticks.
func (a *serveActions) runSymbolTicker(ctx context.Context, period time.Duration, stepsPerSecond int, onTick func(secondIsOdd bool)) {
	ticker := timing.NewTXTicker()
	symbols := ticker.Start(period)
	defer ticker.Stop()

	secondOfMinute := 0
	tickInSecond := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-symbols:
			onTick(secondOfMinute&1 == 1)
			tickInSecond++
			if tickInSecond >= stepsPerSecond {
				tickInSecond = 0
				secondOfMinute = (secondOfMinute + 1) % 60
			}
		}
	}
}

// runMorseTX keys text at the configured WPM, independent of EnterTX/EnterRX
// since CMD:morsetx shares the line with OOK48 RX rather than switching app.
func (a *serveActions) runMorseTX(text string) {
	ditSeconds := 1.2 / float64(a.settings.MorseWPM)
	for _, sym := range cw.EncodeText(text) {
		if sym.Key {
			fmt.Fprintln(a.port, "KEY:1")
		}
		time.Sleep(time.Duration(sym.Units * ditSeconds * float64(time.Second)))
		if sym.Key {
			fmt.Fprintln(a.port, "KEY:0")
		}
	}
}
