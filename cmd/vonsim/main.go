// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	slogmulti "github.com/samber/slog-multi"

	"github.com/ezrec/vonsim/config"
	"github.com/ezrec/vonsim/emulator"
	"github.com/ezrec/vonsim/translate"
)

func main() {
	var configs string
	var listing string
	var trace string
	var verbose bool
	var cycles int
	var scale float64
	var step bool

	flag.StringVar(&configs, "c", "", "Comma separated .cue configuration files")
	flag.StringVar(&listing, "l", "", ".vn listing to assemble")
	flag.StringVar(&trace, "t", "", "JSON trace output file")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.IntVar(&cycles, "n", -1, "Cycle budget, 0 for none")
	flag.Float64Var(&scale, "p", -1, "Pacing scale, 1 for nominal speed")
	flag.BoolVar(&step, "s", false, "Single step one instruction")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	var paths []string
	if len(configs) != 0 {
		paths = strings.Split(configs, ",")
	}

	cfg, err := config.Load(paths...)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if len(listing) != 0 {
		cfg.Listing = listing
	}
	if verbose {
		cfg.Verbose = true
	}
	if cycles >= 0 {
		cfg.MaxCycles = cycles
	}
	if scale >= 0 {
		cfg.Scale = scale
	}

	emu, err := emulator.NewEmulator(cfg)
	if err != nil {
		log.Fatal(err)
	}

	var handlers []slog.Handler
	if cfg.Verbose {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, nil))
	}
	if len(trace) != 0 {
		ouf, err := os.Create(trace)
		if err != nil {
			log.Fatalf("%v: %v", trace, err)
		}
		defer ouf.Close()
		handlers = append(handlers, slog.NewJSONHandler(ouf, nil))
	}
	if len(handlers) != 0 {
		emu.Trace = slog.New(slogmulti.Fanout(handlers...))
	}

	// First interrupt stops the run after its current cycle, the second
	// resets the machine.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		emu.Stop()
		<-interrupt
		emu.Reset()
	}()

	var done bool
	if step {
		done, err = emu.Step()
	} else {
		done, err = emu.Run()
	}

	os.Stdout.WriteString(emu.String())

	if err != nil {
		log.Fatal(err)
	}

	switch {
	case done && step:
		translate.Fprintf(os.Stdout, "halted\n")
	case done:
		translate.Fprintf(os.Stdout, "halted after %d cycles\n", emu.Cycles())
	}
}
