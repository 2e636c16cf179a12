// tswatch opens a small touch target window, hooks the wmtouch module
// into it, and logs every normalized sample the pipeline produces. It
// lives in the tray while watching. Windows only.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/skirk/tslib/internal/logging"
)

type options struct {
	slots    int
	interval time.Duration
	grab     bool
}

func main() {
	var (
		opts      options
		logLevel  = flag.String("log-level", "info", "log level (debug, info, warn, error)")
		logFormat = flag.String("log-format", "text", "log format (text, json)")
	)
	flag.IntVar(&opts.slots, "slots", 10, "maximum output slots per read")
	flag.DurationVar(&opts.interval, "interval", 15*time.Millisecond, "sample poll interval")
	flag.BoolVar(&opts.grab, "grab", false, "pass grab_events=1 to the input module")
	flag.Parse()

	log, err := logging.New(logging.Options{Level: *logLevel, Format: *logFormat})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := watch(log, opts); err != nil {
		log.Error("tswatch failed", "err", err)
		os.Exit(1)
	}
}
