// tsprint configures a touch sample pipeline and prints the normalized
// samples it produces. Without a real touch window it runs a synthetic
// demo frame sequence through the wmtouch interceptor, which exercises
// the same buffer and translation path native messages take.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skirk/tslib/internal/logging"
	"github.com/skirk/tslib/plugins/wmtouch"
	"github.com/skirk/tslib/ts"
)

// demoWindow stands in for a real window handle when frames are
// synthesized instead of intercepted.
const demoWindow = ts.WindowHandle(0x7501)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "tsprint",
		Short:         "print normalized touch samples",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.String("conf", "", "module configuration file (default: wmtouch only)")
	flags.Int("slots", 5, "maximum output slots per multi-contact read")
	flags.Bool("single", false, "use the single-contact read path")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")

	v.SetEnvPrefix("TSLIB")
	v.AutomaticEnv()
	for key, flag := range map[string]string{
		"conffile":   "conf",
		"slots":      "slots",
		"single":     "single",
		"log_level":  "log-level",
		"log_format": "log-format",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	return cmd
}

func run(v *viper.Viper, out io.Writer) error {
	log, err := logging.New(logging.Options{
		Level:  v.GetString("log_level"),
		Format: v.GetString("log_format"),
	})
	if err != nil {
		return err
	}

	dev := ts.Open(demoWindow)
	defer dev.Close()

	if path := v.GetString("conffile"); path != "" {
		entries, err := ts.LoadConf(path)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := dev.Attach(e.Name, e.Params); err != nil {
				return err
			}
		}
	} else if err := dev.Attach(wmtouch.ModuleName, ""); err != nil {
		return err
	}

	in := wmtouch.Lookup(dev.Window())
	if in == nil {
		return fmt.Errorf("tsprint: no %s module attached to the device", wmtouch.ModuleName)
	}
	in.SetLogger(log)
	log.Info("device configured", "modules", ts.ModuleNames(), "grab_events", in.GrabWanted())

	slots := v.GetInt("slots")
	if slots < 1 {
		slots = 1
	}
	single := v.GetBool("single")

	for i, frame := range demoFrames() {
		if !in.Inject(frame) {
			log.Warn("frame rejected", "frame", i)
			continue
		}
		if single {
			printSingle(out, dev, i)
		} else {
			printMulti(out, dev, i, slots)
		}
	}

	if n := in.Dropped(); n > 0 {
		log.Warn("frames dropped on the degraded path", "count", n)
	}
	return nil
}

func printSingle(out io.Writer, dev *ts.Device, frame int) {
	samp := make([]ts.Sample, 1)
	if dev.Read(samp) < 1 {
		return
	}
	fmt.Fprintf(out, "frame %d: %d.%06d x=%d y=%d\n",
		frame, samp[0].Sec, samp[0].Usec, samp[0].X, samp[0].Y)
}

func printMulti(out io.Writer, dev *ts.Device, frame, slots int) {
	samp := make([]ts.Sample, slots)
	n := dev.ReadMulti(samp)
	for k := 0; k < n; k++ {
		fmt.Fprintf(out, "frame %d slot %d: %d.%06d x=%d y=%d\n",
			frame, k, samp[k].Sec, samp[k].Usec, samp[k].X, samp[k].Y)
	}
}
