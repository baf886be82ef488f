package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rszemeti/RP2040-OOK48-Headless/gps"
	"github.com/rszemeti/RP2040-OOK48-Headless/ook48"
	"github.com/rszemeti/RP2040-OOK48-Headless/serialproto"
	"github.com/rszemeti/RP2040-OOK48-Headless/timing"
	"github.com/rszemeti/RP2040-OOK48-Headless/trace"
)

var txFlags = struct {
	message  string
	halfRate bool
}{}

// txCmd drives the OOK48 encoder at its symbol cadence and prints the
// key-line bit and completed characters to stdout, a bench substitute for
// the key-line GPIO a real transmitter toggles.
var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "transmit a message slot through the OOK48 encoder",
	Run:   runWithCtx(runTX),
}

func init() {
	rootCmd.AddCommand(txCmd)

	txCmd.Flags().StringVar(&txFlags.message, "message", "CQ TEST", "message template to transmit")
	txCmd.Flags().BoolVar(&txFlags.halfRate, "halfrate", false, "repeat each character across a second cache pass")
}

func runTX(ctx context.Context, tracer trace.Tracer, cmd *cobra.Command, args []string) {
	// No GPS fix is available on this bench tool; any locator token in the
	// template substitutes the null-island placeholder rather than a real fix.
	loc := gps.Fix(0, 0, gps.Length6)
	message := ook48.CompileMessage(txFlags.message, loc)
	enc := ook48.NewEncoder(message, txFlags.halfRate)

	// Eight key bits plus one key-release tick per character: nine ticks,
	// one character, per second in normal and half-rate operation alike.
	const ticksPerSecond = 9
	symbolPeriod := time.Second / ticksPerSecond

	ticker := timing.NewTXTicker()
	symbols := ticker.Start(symbolPeriod)
	defer ticker.Stop()

	secondOfMinute := 0
	tickInSecond := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-symbols:
			secondIsOdd := secondOfMinute&1 == 1
			key, sentChar, sent := enc.Tick(secondIsOdd)

			fmt.Printf("KEY:%d\n", boolToBit(key))
			if sent {
				fmt.Println(serialproto.TX(sentChar, sentChar == '\r'))
			}

			tickInSecond++
			if tickInSecond >= ticksPerSecond {
				tickInSecond = 0
				secondOfMinute = (secondOfMinute + 1) % 60
			}
		}
	}
}

func boolToBit(b bool) int {
	if b {
		return 1
	}
	return 0
}
