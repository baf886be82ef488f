package beacon

import "github.com/rszemeti/RP2040-OOK48-Headless/fano"

// OutcomeKind tags a Decoder.Decode result.
type OutcomeKind int

const (
	Message OutcomeKind = iota
	NoSync
	FanoTimeout
)

// Outcome is the tagged result of one end-of-minute decode attempt.
type Outcome struct {
	Kind  OutcomeKind
	Text  string
	SNRdB float64
}

// Decoder accumulates one label per second across a minute and, on demand,
// runs the full sync-search/extract/de-interleave/Fano/unpack pipeline.
type Decoder struct {
	cfg    Config
	labels []uint8
	count  int
}

func NewDecoder(cfg Config) *Decoder {
	return &Decoder{cfg: cfg, labels: make([]uint8, cfg.Params.CacheSize)}
}

// Reset starts a fresh minute.
func (d *Decoder) Reset() { d.count = 0 }

// Full reports whether the minute's label buffer has been completely
// filled.
func (d *Decoder) Full() bool { return d.count >= len(d.labels) }

// AppendSecond labels one second's magnitude spectrum via ToneDetect and
// appends it to the minute's buffer. ok is false once the buffer is full.
func (d *Decoder) AppendSecond(magnitude []float64) (snrDB float64, ok bool) {
	if d.count >= len(d.labels) {
		return 0, false
	}
	label, snr := ToneDetect(magnitude, d.cfg.Params.Tone0, d.cfg.Params.Spacing, d.cfg.Params.Tol)
	d.labels[d.count] = label
	d.count++
	return snr, true
}

// maxAcceptableMismatches bounds how many sync-bit mismatches are still
// treated as a genuine lock rather than noise; a quarter of the sync
// vector's length tracks the reference firmware's forgiving minimum-count
// search (no fixed threshold is given in the source beyond "minimum
// mismatch count").
func (d *Decoder) maxAcceptableMismatches() int {
	return len(d.cfg.SyncVector) / 4
}

// Decode runs the full pipeline over the accumulated minute.
func (d *Decoder) Decode() Outcome {
	bestStart, mismatches := FindSync(d.labels[:d.count], d.cfg.SyncVector)
	if bestStart < 0 || mismatches > d.maxAcceptableMismatches() {
		return Outcome{Kind: NoSync}
	}

	bits := ExtractBits(d.labels[:d.count], bestStart, d.cfg.BitCount)
	deint := DeInterleave(bits, d.cfg.DeInterleave)
	soft := ToSoftSymbols(deint)

	msgBits := d.cfg.MessageBytes * 8
	decoded, ok := fano.Decode(soft, msgBits, fano.DefaultDelta, fano.DefaultMaxCyclesPerBit)
	if !ok {
		return Outcome{Kind: FanoTimeout}
	}

	decBytes := bitsToBytes(decoded)
	var text string
	if d.cfg.MessageBytes == 12 {
		var arr [12]byte
		copy(arr[:], decBytes)
		text = UnpackJT4(arr)
	} else {
		var arr [8]byte
		copy(arr[:], decBytes)
		text = UnpackPI4(arr)
	}
	return Outcome{Kind: Message, Text: text}
}

func bitsToBytes(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 0x80 >> uint(i%8)
		}
	}
	return out
}
