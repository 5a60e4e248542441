package main

import (
	"fmt"
	"os"

	"github.com/ogier/pflag"
	"github.com/pkg/profile"

	"github.com/kobzarvs/nedit/internal/app"
	"github.com/kobzarvs/nedit/internal/logger"
)

var (
	optDebug    = pflag.BoolP("debug", "D", false, "Write debug messages to the log")
	optLine     = pflag.IntP("line", "l", 0, "Put the caret on this line (1 based)")
	optLanguage = pflag.StringP("language", "L", "", "Override the detected language")
	optProfile  = pflag.StringP("profile", "p", "", "Write a cpu or heap profile to the current directory")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] [file]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Options:\n")
	pflag.PrintDefaults()
}

func main() {
	pflag.Usage = usage
	pflag.Parse()
	os.Exit(run())
}

func run() int {
	switch *optProfile {
	case "":
	case "cpu":
		defer profile.Start(profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "heap":
		defer profile.Start(profile.MemProfileHeap, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		fmt.Fprintf(os.Stderr, "nedit: unknown profile %q\n", *optProfile)
		return 2
	}

	if err := logger.Init(*optDebug); err != nil {
		fmt.Fprintln(os.Stderr, "nedit: logger:", err)
	}
	defer logger.Close()

	opts := app.Options{Line: *optLine, Language: *optLanguage}
	if pflag.NArg() > 0 {
		opts.Path = pflag.Arg(0)
	}
	if err := app.New(opts).Run(); err != nil {
		logger.Error("exit", "error", err)
		fmt.Fprintln(os.Stderr, "nedit:", err)
		return 1
	}
	return 0
}
