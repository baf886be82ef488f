package cmd

import (
	"context"

	"github.com/jfreymuth/pulse"

	"github.com/rszemeti/RP2040-OOK48-Headless/engine"
)

// pulseFrameFeeder turns a Pulseaudio float32 sample stream into the raw,
// midscale-centred ADC frames engine.Engine.Feed expects, standing in for
// the physical ADC/DMA front end this host build has no direct access to.
type pulseFrameFeeder struct {
	eng       *engine.Engine
	frameSize int
	buf       []uint16
}

func newPulseFrameFeeder(eng *engine.Engine, frameSize int) *pulseFrameFeeder {
	return &pulseFrameFeeder{eng: eng, frameSize: frameSize}
}

func (f *pulseFrameFeeder) Write(samples []float32) (int, error) {
	for _, s := range samples {
		switch {
		case s > 1:
			s = 1
		case s < -1:
			s = -1
		}
		f.buf = append(f.buf, uint16(engine.ADCMidscale+float64(s)*engine.ADCMidscale))
		if len(f.buf) == f.frameSize {
			frame := make([]uint16, f.frameSize)
			copy(frame, f.buf)
			f.eng.Feed(frame)
			f.buf = f.buf[:0]
		}
	}
	return len(samples), nil
}

// startCapture opens a Pulseaudio source (the default one if sourceID is
// empty) and streams it into feeder until ctx is cancelled. It returns the
// source's native sample rate. Feeder's frame size is set by the caller
// before this call, from the mode's sample count and engine.Oversample; it
// does not depend on the returned rate.
func startCapture(ctx context.Context, sourceID string, feeder *pulseFrameFeeder) (client *pulse.Client, sampleRate int, err error) {
	client, err = pulse.NewClient(pulse.ClientApplicationName("ook48"))
	if err != nil {
		return nil, 0, err
	}

	var source *pulse.Source
	if sourceID == "" {
		source, err = client.DefaultSource()
	} else {
		source, err = client.SourceByID(sourceID)
	}
	if err != nil {
		client.Close()
		return nil, 0, err
	}

	stream, err := client.NewRecord(pulse.Float32Writer(feeder.Write))
	if err != nil {
		client.Close()
		return nil, 0, err
	}

	stream.Start()
	go func() {
		<-ctx.Done()
		stream.Stop()
		client.Close()
	}()

	return client, source.SampleRate(), nil
}
