// tc-iterate keeps one batched `tc` child alive and commands it at a fixed
// interval, emitting each response as a timestamped, delimited snapshot.
// High-resolution qdisc statistics without a fork per sample.
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
	pflag.StringP("interface", "i", "eth0", "interface to sample (eth0, wlan0, etc)")
	pflag.StringP("command", "C", "qdisc", "tc statistics family (qdisc, class, filter)")
	pflag.BoolP("buffer", "b", false, "buffer up the output locally, emit it when done")
	pflag.Int("publish", 0, "also publish snapshots on this ZMQ PUB port")
	pflag.Bool("verbose", false, "log extra diagnostics")
	printVersion := pflag.Bool("version", false, "print version and quit")
	pflag.Parse()

	if *printVersion {
		fmt.Printf("This is tc-iterate version %s\n", iterate.Build.Version)
		fmt.Printf("Built on go version %s\n", runtime.Version())
		return
	}

	if err := iterate.SetupViper(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	viper.BindPFlags(pflag.CommandLine)
	iterate.StartProblemLogger("tc-iterate")

	cfg := &iterate.SampleConfig{
		Kind:     iterate.KindPipe,
		Interval: viper.GetFloat64("interval"),
		Count:    viper.GetInt("count"),
		Device:   viper.GetString("interface"),
		Command:  viper.GetString("command"),
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
