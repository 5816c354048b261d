package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wbrown/clahe"
)

type config struct {
	input  string
	output string

	clipLimit     float64
	relativeClip  float64
	tilesX        int
	tilesY        int
	workers       int
	maxSide       int
	interpolation string
	denoise       int

	debug       bool
	showVersion bool
	update      bool
}

// envDefaults seeds flag defaults from CLAHE_* environment variables, which
// may come from a .env file in the working directory.
func envDefaults() (*config, error) {
	cfg := &config{
		clipLimit:     clahe.DefaultClipLimit,
		tilesX:        clahe.DefaultTilesX,
		tilesY:        clahe.DefaultTilesY,
		interpolation: "catmullrom",
	}
	if v := os.Getenv("CLAHE_CLIP_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("CLAHE_CLIP_LIMIT: %w", err)
		}
		cfg.clipLimit = f
	}
	if v := os.Getenv("CLAHE_TILES"); v != "" {
		x, y, err := parseGrid(v)
		if err != nil {
			return nil, fmt.Errorf("CLAHE_TILES: %w", err)
		}
		cfg.tilesX, cfg.tilesY = x, y
	}
	if v := os.Getenv("CLAHE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("CLAHE_WORKERS: %w", err)
		}
		cfg.workers = n
	}
	cfg.debug = os.Getenv("CLAHE_DEBUG") != ""
	return cfg, nil
}

// parseConfig parses command-line arguments on top of the environment
// defaults.
func parseConfig(args []string) (*config, error) {
	cfg, err := envDefaults()
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("clahe", flag.ContinueOnError)
	fs.StringVar(&cfg.input, "input", "", "Path to the input image file (required)")
	fs.StringVar(&cfg.output, "output", "",
		"Path to save the equalized image (default: <input>_clahe.png)")
	fs.Float64Var(&cfg.clipLimit, "clip", cfg.clipLimit,
		"Maximum count per histogram bin, 0 disables clipping")
	fs.Float64Var(&cfg.relativeClip, "relclip", 0,
		"Clip limit relative to the mean bin height of a tile (OpenCV convention); overrides -clip")
	tiles := fs.String("tiles", fmt.Sprintf("%dx%d", cfg.tilesX, cfg.tilesY),
		"Tile grid as COLSxROWS, or a single number for a square grid")
	fs.IntVar(&cfg.workers, "workers", cfg.workers, "Goroutines per stage, 0 for GOMAXPROCS")
	fs.IntVar(&cfg.maxSide, "maxside", 0, "Downscale so neither side exceeds this, 0 to disable")
	fs.StringVar(&cfg.interpolation, "interp", cfg.interpolation,
		"Resize kernel: catmullrom, linear, or nearest")
	fs.IntVar(&cfg.denoise, "denoise", 0, "Gaussian pre-smoothing size: 0, 3 or 5")
	fs.BoolVar(&cfg.debug, "debug", cfg.debug, "Log debug records to stderr")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print the version and exit")
	fs.BoolVar(&cfg.update, "update", false, "Update to the latest release and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.tilesX, cfg.tilesY, err = parseGrid(*tiles)
	if err != nil {
		return nil, fmt.Errorf("-tiles: %w", err)
	}
	if cfg.showVersion || cfg.update {
		return cfg, nil
	}
	if cfg.input == "" {
		fs.Usage()
		return nil, fmt.Errorf("please provide the image using the -input flag")
	}
	if cfg.output == "" {
		cfg.output = defaultOutput(cfg.input)
	}
	return cfg, nil
}

// parseGrid accepts "8x6" or "8".
func parseGrid(s string) (int, int, error) {
	cols, rows, found := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	x, err := strconv.Atoi(cols)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid grid %q", s)
	}
	if !found {
		return x, x, nil
	}
	y, err := strconv.Atoi(rows)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid grid %q", s)
	}
	return x, y, nil
}

func defaultOutput(input string) string {
	base := input
	if i := strings.LastIndex(base, "."); i > strings.LastIndexAny(base, `/\`) {
		base = base[:i]
	}
	return base + "_clahe.png"
}

func (c *config) options() []clahe.Option {
	opts := []clahe.Option{
		clahe.WithClipLimit(c.clipLimit),
		clahe.WithTileGrid(c.tilesX, c.tilesY),
		clahe.WithWorkers(c.workers),
	}
	if c.relativeClip > 0 {
		opts = append(opts, clahe.WithRelativeClipLimit(c.relativeClip))
	}
	return opts
}
