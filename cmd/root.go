package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rszemeti/RP2040-OOK48-Headless/trace"
)

var (
	version   string = "develop"
	gitCommit string = "-"
	buildTime string = "-"
)

var rootFlags = struct {
	pprof     bool
	debug     bool
	traceFile string
	traceUDP  string
}{}

var rootCmd = &cobra.Command{
	Use:   "ook48",
	Short: "RP2040-OOK48-Headless - narrow-band weak-signal RX/TX core",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&rootFlags.pprof, "pprof", false, "enable pprof")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootFlags.traceFile, "trace", "", "write intermediate decode values to this file")
	rootCmd.PersistentFlags().StringVar(&rootFlags.traceUDP, "trace-udp", "", "send intermediate decode values to this host:port over UDP instead of --trace")

	rootCmd.PersistentFlags().MarkHidden("pprof")
	rootCmd.PersistentFlags().MarkHidden("trace")
	rootCmd.PersistentFlags().MarkHidden("trace-udp")
}

// runWithCtx wraps a command's Run function with the ambient concerns
// every subcommand needs: version logging, optional pprof, a cancelable
// context wired to OS signals, and an optional trace.Tracer built from
// --trace or --trace-udp (the latter wins if both are set, for piping
// traces to a listener on another machine rather than a local file).
func runWithCtx(f func(ctx context.Context, tracer trace.Tracer, cmd *cobra.Command, args []string)) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if !rootFlags.debug {
			log.SetOutput(&nopWriter{})
		}

		log.Printf("RP2040-OOK48-Headless Version %s", formatVersion())

		if rootFlags.pprof {
			go func() {
				log.Printf("starting pprof on http://localhost:6060/debug/pprof")
				log.Println(http.ListenAndServe("localhost:6060", nil))
			}()
		}

		var tracer trace.Tracer = &trace.NoTracer{}
		switch {
		case rootFlags.traceUDP != "":
			udpTracer := trace.NewUDPTracer("engine", rootFlags.traceUDP)
			udpTracer.Start()
			defer udpTracer.Stop()
			tracer = udpTracer
		case rootFlags.traceFile != "":
			fileTracer := trace.NewFileTracer("engine", rootFlags.traceFile)
			fileTracer.Start()
			defer fileTracer.Stop()
			tracer = fileTracer
		}

		ctx, cancel := context.WithCancel(context.Background())
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
		go handleCancelation(signals, cancel)

		f(ctx, tracer, cmd, args)
	}
}

func formatVersion() string {
	if gitCommit == "-" && buildTime == "-" {
		return version
	}
	return fmt.Sprintf("%s_%s_%s", version, gitCommit, buildTime)
}

func handleCancelation(signals <-chan os.Signal, cancel context.CancelFunc) {
	count := 0
	for range signals {
		count++
		if count == 1 {
			cancel()
		} else {
			log.Fatal("hard shutdown")
		}
	}
}

type nopWriter struct{}

func (w *nopWriter) Write(p []byte) (n int, err error) { return len(p), nil }
