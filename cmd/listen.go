package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/rszemeti/RP2040-OOK48-Headless/dispatch"
	"github.com/rszemeti/RP2040-OOK48-Headless/engine"
	"github.com/rszemeti/RP2040-OOK48-Headless/metrics"
	"github.com/rszemeti/RP2040-OOK48-Headless/serialproto"
	"github.com/rszemeti/RP2040-OOK48-Headless/tonecache"
	"github.com/rszemeti/RP2040-OOK48-Headless/trace"
)

var listenFlags = struct {
	source   string
	mode     string
	halfRate bool
}{}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "capture a Pulseaudio source and print decoded lines to stdout",
	Run:   runWithCtx(runListen),
}

func init() {
	listenCmd.Flags().StringVar(&listenFlags.source, "source", "", "Pulseaudio source name (default source if empty)")
	listenCmd.Flags().StringVar(&listenFlags.mode, "mode", "ook48", "decode mode: ook48, jt4g, pi4, morse")
	listenCmd.Flags().BoolVar(&listenFlags.halfRate, "halfrate", false, "use the half-rate OOK48 cache size")
	rootCmd.AddCommand(listenCmd)
}

func parseMode(s string) (tonecache.Mode, error) {
	switch s {
	case "ook48":
		return tonecache.OOK48, nil
	case "jt4g":
		return tonecache.JT4G, nil
	case "pi4":
		return tonecache.PI4, nil
	case "morse":
		return tonecache.Morse, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// runListen wires a live Pulseaudio capture into an engine.Engine and prints
// every dispatch.Envelope it emits as a serialproto line, standing in for
// the serial link to the dashboard a real deployment would use.
func runListen(ctx context.Context, tracer trace.Tracer, cmd *cobra.Command, args []string) {
	mode, err := parseMode(listenFlags.mode)
	if err != nil {
		log.Fatal(err)
	}

	out := dispatch.NewQueue(dispatch.DefaultQueueCapacity)
	eng := engine.NewEngine(out, metrics.New())
	eng.SetTracer(tracer)
	eng.SetMode(mode, listenFlags.halfRate)
	eng.Start()
	defer eng.Stop()

	params := tonecache.OOK48Params(listenFlags.halfRate)
	switch mode {
	case tonecache.JT4G:
		params = tonecache.JT4GParams()
	case tonecache.PI4:
		params = tonecache.PI4Params()
	case tonecache.Morse:
		params = tonecache.MorseParams()
	}

	feeder := newPulseFrameFeeder(eng, params.NumSamples*engine.Oversample)
	client, sampleRate, err := startCapture(ctx, listenFlags.source, feeder)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()
	log.Printf("capturing at %d Hz, mode=%s", sampleRate, listenFlags.mode)

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

	drainEnvelopes(ctx, out)
}

func drainEnvelopes(ctx context.Context, out *dispatch.Queue) {
	type received struct {
		msg dispatch.Envelope
		ok  bool
	}
	next := make(chan received)
	go func() {
		for {
			msg, ok := out.Receive()
			next <- received{msg, ok}
			if !ok {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case r := <-next:
			if !r.ok {
				return
			}
			if line := formatEnvelope(r.msg); line != "" {
				fmt.Println(line)
			}
		}
	}
}

func formatEnvelope(msg dispatch.Envelope) string {
	switch msg.Tag {
	case dispatch.Message:
		return serialproto.MSG(msg.Char, msg.Char == 0, msg.Char == 0x7E)
	case dispatch.SFTMessage:
		var soft [8]float64
		copy(soft[:], msg.Soft)
		return serialproto.SFT(soft)
	case dispatch.JTMessage:
		return serialproto.JT(time.Now(), msg.SNRdB, msg.Text)
	case dispatch.PIMessage:
		return serialproto.PI(time.Now(), msg.SNRdB, msg.Text)
	case dispatch.MorseMessage:
		return serialproto.MCH(msg.Char, msg.Char == ' ', msg.Char == 0x7E)
	case dispatch.MorseLocked:
		return serialproto.MLS(msg.WPM, true)
	case dispatch.MorseLost:
		return serialproto.MLS(0, false)
	case dispatch.Error:
		return serialproto.ERR(msg.Text)
	default:
		return ""
	}
}
