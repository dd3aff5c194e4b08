package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/President-of-China/calcium/app"
	"github.com/President-of-China/calcium/hal"
)

// exprFlags collects repeatable -fn flags.
type exprFlags []string

func (e *exprFlags) String() string { return fmt.Sprint(*e) }

func (e *exprFlags) Set(v string) error {
	*e = append(*e, v)
	return nil
}

func main() {
	var hcfg hal.HeadlessConfig
	var exprs exprFlags
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hcfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&hcfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&hcfg.Snapshot, "snapshot", "", "Write the framebuffer as PNG to this path on headless exit.")
	flag.Var(&exprs, "fn", "Seed a function slot (repeatable), e.g. -fn 'sin(x)' -fn 'x^2'.")
	flag.Parse()

	cfg := app.Config{Expressions: exprs}

	if hcfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, func(h hal.HAL) (func() error, func()) {
			return app.NewWithConfig(h, cfg)
		}, hcfg); err != nil {
			if err == context.Canceled {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(func(h hal.HAL) (func() error, func()) {
		return app.NewWithConfig(h, cfg)
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
