package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/wbrown/clahe"
	"github.com/wbrown/clahe/imageutil"
)

func main() {
	// A missing .env is fine; flags and the process environment still apply.
	_ = godotenv.Load()

	cfg, err := parseConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	switch {
	case cfg.showVersion:
		fmt.Println(Version)
		return
	case cfg.update:
		if err := checkForUpdates(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if cfg.debug {
		clahe.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config) error {
	begin := time.Now()
	img, err := imageutil.LoadGrayImage(cfg.input)
	if err != nil {
		return err
	}

	interp, err := imageutil.ParseInterpolation(cfg.interpolation)
	if err != nil {
		return err
	}
	img = imageutil.FitGray(img, cfg.maxSide, interp)
	if img, err = imageutil.Denoise(img, cfg.denoise); err != nil {
		return err
	}
	endLoad := time.Now()

	out, err := clahe.Equalize(img, cfg.options()...)
	if err != nil {
		return fmt.Errorf("equalizing %s: %w", cfg.input, err)
	}
	endComputation := time.Now()

	if err := imageutil.SaveGrayImage(out, cfg.output); err != nil {
		return err
	}

	inLo, inHi := imageutil.ContrastRange(img)
	outLo, outHi := imageutil.ContrastRange(out)
	fmt.Printf("Output written to %s (%dx%d)\n", cfg.output, out.Width(), out.Height())
	fmt.Printf("Range: [%d,%d] -> [%d,%d]\n", inLo, inHi, outLo, outHi)
	fmt.Printf("Entropy: %.3f -> %.3f bits\n", clahe.ImageEntropy(img), clahe.ImageEntropy(out))
	fmt.Printf("Load time: %v\n", endLoad.Sub(begin))
	fmt.Printf("Computation time: %v\n", endComputation.Sub(endLoad))
	return nil
}
