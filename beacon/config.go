package beacon

import "github.com/rszemeti/RP2040-OOK48-Headless/tonecache"

// Config bundles one beacon mode's front-end geometry with its
// wire-observable tables.
type Config struct {
	Params       tonecache.Params
	SyncVector   []uint8
	DeInterleave []uint8
	BitCount     int
	MessageBytes int
}

func JT4Config() Config {
	return Config{
		Params:       tonecache.JT4GParams(),
		SyncVector:   JT4SyncVector[:],
		DeInterleave: jt4DeInterleave[:],
		BitCount:     len(jt4DeInterleave),
		MessageBytes: 12,
	}
}

func PI4Config() Config {
	return Config{
		Params:       tonecache.PI4Params(),
		SyncVector:   PI4SyncVector[:],
		DeInterleave: pi4DeInterleave[:],
		BitCount:     len(pi4DeInterleave),
		MessageBytes: 8,
	}
}
