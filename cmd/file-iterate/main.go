// file-iterate samples one file at a fixed interval and emits timestamped,
// delimited snapshots of its contents.
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
	pflag.StringP("filename", "f", "", "file to sample each tick")
	pflag.BoolP("buffer", "b", false, "buffer up the output locally, emit it when done")
	pflag.Int("publish", 0, "also publish snapshots on this ZMQ PUB port")
	pflag.Bool("verbose", false, "log extra diagnostics")
	printVersion := pflag.Bool("version", false, "print version and quit")
	pflag.Parse()

	if *printVersion {
		fmt.Printf("This is file-iterate version %s\n", iterate.Build.Version)
		fmt.Printf("Built on go version %s\n", runtime.Version())
		return
	}

	if err := iterate.SetupViper(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	viper.BindPFlags(pflag.CommandLine)
	iterate.StartProblemLogger("file-iterate")

	cfg := &iterate.SampleConfig{
		Kind:     iterate.KindFile,
		Interval: viper.GetFloat64("interval"),
		Count:    viper.GetInt("count"),
		Filename: viper.GetString("filename"),
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
