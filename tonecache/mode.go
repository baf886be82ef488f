package tonecache

// Mode identifies which decoder owns the DSP front end's current
// configuration.
type Mode int

const (
	OOK48 Mode = iota
	JT4G
	PI4
	Morse
)

func (m Mode) String() string {
	switch m {
	case OOK48:
		return "OOK48"
	case JT4G:
		return "JT4G"
	case PI4:
		return "PI4"
	case Morse:
		return "Morse"
	default:
		return "unknown"
	}
}

// Params holds the fixed, wire-contract DSP front-end configuration for one
// mode. SampleRate and NumSamples size the
// ingest decimator and the spectrum window; StartBin/NumBins size the
// magnitude vector copied out of the FFT; Tone0/Spacing/Tol locate the
// mode's tone bins within that vector; CacheSize is the number of symbol
// slots in the tone cache before a FrameReady/end-of-minute event fires.
type Params struct {
	Mode       Mode
	SampleRate int
	NumSamples int
	NumBins    int
	StartBin   int
	Tone0      int
	Spacing    int
	Tol        int
	CacheSize  int
}

// OOK48Params returns the OOK48 front-end configuration. cacheSize is 8 in
// normal operation, 16 under half-rate (the decoder folds the second half
// back onto the first).
func OOK48Params(halfRate bool) Params {
	cacheSize := 8
	if halfRate {
		cacheSize = 16
	}
	return Params{
		Mode:       OOK48,
		SampleRate: 9216,
		NumSamples: 1024,
		NumBins:    68,
		StartBin:   55,
		Tone0:      34,
		Tol:        11,
		CacheSize:  cacheSize,
	}
}

// JT4GParams returns the JT4G front-end configuration.
func JT4GParams() Params {
	return Params{
		Mode:       JT4G,
		SampleRate: 4480,
		NumSamples: 1024,
		NumBins:    343,
		StartBin:   114,
		Tone0:      69,
		Spacing:    72,
		Tol:        22,
		CacheSize:  240,
	}
}

// PI4Params returns the PI4 front-end configuration.
func PI4Params() Params {
	return Params{
		Mode:       PI4,
		SampleRate: 6144,
		NumSamples: 1024,
		NumBins:    167,
		StartBin:   83,
		Tone0:      31,
		Spacing:    39,
		Tol:        12,
		CacheSize:  180,
	}
}

// MorseParams returns the Morse front-end configuration. The Morse decoder
// has no symbol-frame tone cache (it streams one magnitude per frame
// straight into the AGC), so CacheSize is unused and left at zero.
func MorseParams() Params {
	return Params{
		Mode:       Morse,
		SampleRate: 9216,
		NumSamples: 256,
		NumBins:    128,
		StartBin:   0,
		Tone0:      22,
		Tol:        3,
	}
}
