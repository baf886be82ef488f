package cmd

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/rszemeti/RP2040-OOK48-Headless/dispatch"
	"github.com/rszemeti/RP2040-OOK48-Headless/engine"
	"github.com/rszemeti/RP2040-OOK48-Headless/metrics"
	"github.com/rszemeti/RP2040-OOK48-Headless/tonecache"
	"github.com/rszemeti/RP2040-OOK48-Headless/trace"
)

var decodeFlags = struct {
	file     string
	mode     string
	halfRate bool
}{}

// decodeCmd replays a previously captured raw sample file through the same
// engine.Engine a live capture uses, frame by frame, synthesising one PPS
// edge per second of decimated samples rather than waiting on a real GPS.
var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "decode a captured raw sample file offline",
	Run:   runWithCtx(runDecode),
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVar(&decodeFlags.file, "file", "", "path to a raw little-endian uint16 sample capture")
	decodeCmd.Flags().StringVar(&decodeFlags.mode, "mode", "ook48", "decode mode: ook48, jt4g, pi4, morse")
	decodeCmd.Flags().BoolVar(&decodeFlags.halfRate, "halfrate", false, "use the half-rate OOK48 cache size")
	decodeCmd.MarkFlagRequired("file")
}

// readSampleFile loads a whole capture into memory as raw ADC readings. A
// capture file this small (a handful of seconds at most) never justifies
// streaming I/O.
func readSampleFile(path string) ([]uint16, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("%s: odd byte count, not 16-bit samples", path)
	}

	samples := make([]uint16, len(raw)/2)
	for i := range samples {
		samples[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return samples, nil
}

func runDecode(ctx context.Context, tracer trace.Tracer, cmd *cobra.Command, args []string) {
	mode, err := parseMode(decodeFlags.mode)
	if err != nil {
		log.Fatal(err)
	}

	samples, err := readSampleFile(decodeFlags.file)
	if err != nil {
		log.Fatal(err)
	}

	var params tonecache.Params
	switch mode {
	case tonecache.OOK48:
		params = tonecache.OOK48Params(decodeFlags.halfRate)
	case tonecache.JT4G:
		params = tonecache.JT4GParams()
	case tonecache.PI4:
		params = tonecache.PI4Params()
	case tonecache.Morse:
		params = tonecache.MorseParams()
	}

	out := dispatch.NewQueue(dispatch.DefaultQueueCapacity)
	eng := engine.NewEngine(out, metrics.New())
	eng.SetTracer(tracer)
	eng.SetMode(mode, decodeFlags.halfRate)
	eng.Start()
	defer eng.Stop()

	go func() {
		<-feedSampleFile(ctx, eng, samples, params)
		out.Close()
	}()

	for {
		msg, ok := out.Receive()
		if !ok {
			return
		}
		if line := formatEnvelope(msg); line != "" {
			fmt.Println(line)
		}
	}
}

// feedSampleFile drives eng with samples one frame at a time, synthesising a
// PPS edge every params.SampleRate decimated samples, and closes the
// returned channel once every frame has been fed.
func feedSampleFile(ctx context.Context, eng *engine.Engine, samples []uint16, params tonecache.Params) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		frameSize := params.NumSamples * engine.Oversample
		decimatedSinceEdge := 0
		second := 0

		for offset := 0; offset+frameSize <= len(samples); offset += frameSize {
			select {
			case <-ctx.Done():
				return
			default:
			}

			frame := make([]uint16, frameSize)
			copy(frame, samples[offset:offset+frameSize])
			eng.Feed(frame)

			decimatedSinceEdge += params.NumSamples
			if decimatedSinceEdge >= params.SampleRate {
				decimatedSinceEdge -= params.SampleRate
				eng.PPSEdge(second % 60)
				second++
			}
		}
	}()
	return done
}
