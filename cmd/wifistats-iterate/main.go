// wifistats-iterate discovers the stations of a wifi device under debugfs
// and samples their airtime and rate-control counters at a fixed interval,
// emitting one timestamped, delimited snapshot per tick.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/flent-tools/iterate"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	pflag.IntP("count", "c", 10, "number of iterations")
	pflag.Float64P("interval", "I", 0.2, "fractional number of seconds between samples")
	pflag.StringP("interface", "i", "", "wifi interface whose stations to sample")
	pflag.String("debugfs", iterate.DefaultDebugFS, "root of the ieee80211 debugfs tree")
	pflag.BoolP("buffer", "b", false, "buffer up the output locally, emit it when done")
	pflag.Int("publish", 0, "also publish snapshots on this ZMQ PUB port")
	pflag.Bool("verbose", false, "log extra diagnostics, including the discovered station set")
	printVersion := pflag.Bool("version", false, "print version and quit")
	pflag.Parse()

	if *printVersion {
		fmt.Printf("This is wifistats-iterate version %s\n", iterate.Build.Version)
		fmt.Printf("Built on go version %s\n", runtime.Version())
		return
	}

	if err := iterate.SetupViper(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	viper.BindPFlags(pflag.CommandLine)
	iterate.StartProblemLogger("wifistats-iterate")

	cfg := &iterate.SampleConfig{
		Kind:     iterate.KindStations,
		Interval: viper.GetFloat64("interval"),
		Count:    viper.GetInt("count"),
		Device:   viper.GetString("interface"),
		DebugFS:  viper.GetString("debugfs"),
		Buffer:   viper.GetBool("buffer"),
		Publish:  viper.GetInt("publish"),
		Verbose:  viper.GetBool("verbose"),
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		pflag.Usage()
		os.Exit(1)
	}
	os.Exit(iterate.RunMain(cfg))
}
