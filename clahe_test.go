package clahe

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/wbrown/clahe/imageutil"
)

func TestEqualizeErrors(t *testing.T) {
	if _, err := Equalize(nil); !errors.Is(err, ErrNilImage) {
		t.Errorf("nil input: err = %v, want ErrNilImage", err)
	}
	if _, err := Equalize(imageutil.NewGrayImage(0, 0)); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty input: err = %v, want ErrEmptyInput", err)
	}
	if _, err := Equalize(imageutil.NewGrayImage(4, 4)); !errors.Is(err, ErrTileGridTooFine) {
		t.Errorf("4x4 with 8x8 grid: err = %v, want ErrTileGridTooFine", err)
	}
	if _, err := Equalize(imageutil.NewGrayImage(16, 16), WithTileGrid(0, 2)); !errors.Is(err, ErrInvalidTileGrid) {
		t.Errorf("0x2 grid: err = %v, want ErrInvalidTileGrid", err)
	}
}

func TestApplyErrorsLeaveOutputUntouched(t *testing.T) {
	tests := []struct {
		name string
		src  *imageutil.GrayImage
		dst  *imageutil.GrayImage
		opts []Option
		want error
	}{
		{"size mismatch", imageutil.CreateNoiseImage(32, 32, 1), imageutil.NewGrayImage(32, 31), nil, ErrSizeMismatch},
		{"too fine", imageutil.CreateNoiseImage(4, 4, 1), imageutil.NewGrayImage(4, 4), nil, ErrTileGridTooFine},
		{"invalid grid", imageutil.CreateNoiseImage(16, 16, 1), imageutil.NewGrayImage(16, 16), []Option{WithTileGrid(3, 0)}, ErrInvalidTileGrid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.dst.Fill(77)
			err := NewEqualizer(tc.opts...).Apply(tc.src, tc.dst)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			for y := 0; y < tc.dst.Height(); y++ {
				for x := 0; x < tc.dst.Width(); x++ {
					if v := tc.dst.GetGray(x, y); v != 77 {
						t.Fatalf("output written at (%d,%d): %d", x, y, v)
					}
				}
			}
		})
	}
}

func TestApplyNilImages(t *testing.T) {
	e := NewEqualizer()
	if err := e.Apply(nil, imageutil.NewGrayImage(8, 8)); !errors.Is(err, ErrNilImage) {
		t.Errorf("nil src: err = %v", err)
	}
	if err := e.Apply(imageutil.NewGrayImage(8, 8), nil); !errors.Is(err, ErrNilImage) {
		t.Errorf("nil dst: err = %v", err)
	}
}

func TestNewEqualizerDefaults(t *testing.T) {
	e := NewEqualizer()
	if e.ClipLimit != DefaultClipLimit || e.TilesX != 8 || e.TilesY != 8 {
		t.Errorf("defaults = clip %v grid %dx%d", e.ClipLimit, e.TilesX, e.TilesY)
	}
	if e.RelativeClip != 0 || e.Workers != 0 || e.Mapper == nil {
		t.Errorf("unexpected defaults: %+v", e)
	}

	e = NewEqualizer(WithRelativeClipLimit(3), WithClipLimit(10))
	if e.RelativeClip != 0 || e.ClipLimit != 10 {
		t.Errorf("WithClipLimit should clear the relative limit: %+v", e)
	}
}

func TestEqualizeCornerUsesSingleTable(t *testing.T) {
	src := imageutil.CreateNoiseImage(256, 256, 42)
	out, err := Equalize(src)
	if err != nil {
		t.Fatal(err)
	}
	g, err := BuildTileMappings(src, 8, 8, DefaultClipLimit, nil)
	if err != nil {
		t.Fatal(err)
	}

	corners := []struct {
		x, y int
		c    TileCoordinate
	}{
		{0, 0, TileCoordinate{0, 0}},
		{16, 3, TileCoordinate{0, 0}},
		{255, 0, TileCoordinate{7, 0}},
		{0, 255, TileCoordinate{0, 7}},
		{250, 245, TileCoordinate{7, 7}},
	}
	for _, c := range corners {
		want := g.Table(c.c)[src.GetGray(c.x, c.y)]
		if got := out.GetGray(c.x, c.y); got != want {
			t.Errorf("corner pixel (%d,%d) = %d, want %d", c.x, c.y, got, want)
		}
	}
}

func TestEqualizeSingleTileIsGlobalEqualization(t *testing.T) {
	src := imageutil.CreateLowContrastImage(97, 61, 40, 120)
	const clip = 30.0
	out, err := Equalize(src, WithTileGrid(1, 1), WithClipLimit(clip))
	if err != nil {
		t.Fatal(err)
	}

	h := NewHistogram()
	if err := BuildHistogram(src, h); err != nil {
		t.Fatal(err)
	}
	if err := h.Clip(clip); err != nil {
		t.Fatal(err)
	}
	table := AreaMapping.Map(h)
	for y := 0; y < 61; y++ {
		for x := 0; x < 97; x++ {
			if got, want := out.GetGray(x, y), table[src.GetGray(x, y)]; got != want {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func assertUniform(t *testing.T, img *imageutil.GrayImage) {
	t.Helper()
	first := img.GetGray(0, 0)
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			if v := img.GetGray(x, y); v != first {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, v, first)
			}
		}
	}
}

func TestEqualizeUniformStaysUniform(t *testing.T) {
	grids := [][2]int{{1, 1}, {2, 2}, {4, 2}, {8, 8}, {16, 4}}
	clips := []float64{0, 1, 4, 40, 1e6}
	for _, v := range []uint8{0, 37, 128, 255} {
		src := imageutil.CreateUniformImage(128, 64, v)
		for _, grid := range grids {
			for _, clip := range clips {
				out, err := Equalize(src, WithTileGrid(grid[0], grid[1]), WithClipLimit(clip))
				if err != nil {
					t.Fatal(err)
				}
				assertUniform(t, out)
			}
		}
	}
}

func TestEqualizeUniformUnclippedUnevenTiles(t *testing.T) {
	src := imageutil.CreateUniformImage(101, 67, 90)
	out, err := Equalize(src, WithTileGrid(8, 6), WithClipLimit(0))
	if err != nil {
		t.Fatal(err)
	}
	assertUniform(t, out)
	if v := out.GetGray(0, 0); v != 255 {
		t.Errorf("unclipped uniform image maps to %d, want 255", v)
	}
}

func TestEqualizeUniformClippedUnevenTiles(t *testing.T) {
	// 100 = 7*12 + 16: the last column and row of tiles are wider, so
	// their clipped tables differ from the nominal tiles'.
	src := imageutil.CreateUniformImage(100, 100, 50)
	out, err := Equalize(src)
	if err != nil {
		t.Fatal(err)
	}
	g, err := BuildTileMappings(src, 8, 8, DefaultClipLimit, nil)
	if err != nil {
		t.Fatal(err)
	}

	nominal := g.Table(TileCoordinate{0, 0})[50]
	if nominal != 161 {
		t.Errorf("nominal tile maps 50 to %d, want 161", nominal)
	}
	// Up to the center of the seventh tile (6.5*12 = 78) only nominal
	// tiles contribute, so the output is flat there.
	for y := 0; y <= 78; y++ {
		for x := 0; x <= 78; x++ {
			if v := out.GetGray(x, y); v != nominal {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, v, nominal)
			}
		}
	}

	corner := g.Table(TileCoordinate{7, 7})[50]
	if corner != 91 {
		t.Errorf("16x16 corner tile maps 50 to %d, want 91", corner)
	}
	if v := out.GetGray(99, 99); v != corner {
		t.Errorf("pixel (99,99) = %d, want %d", v, corner)
	}
	if v := out.GetGray(99, 0); v != g.Table(TileCoordinate{7, 0})[50] {
		t.Errorf("pixel (99,0) = %d, want %d", v, g.Table(TileCoordinate{7, 0})[50])
	}
	if lo, hi := imageutil.ContrastRange(out); lo != 91 || hi != 161 {
		t.Errorf("range = [%d,%d], want [91,161]", lo, hi)
	}
}

func TestEqualizeDeterministic(t *testing.T) {
	src := imageutil.CreateNoiseImage(203, 149, 11)
	a, err := Equalize(src, WithWorkers(1))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Equalize(src, WithWorkers(7))
	if err != nil {
		t.Fatal(err)
	}
	c, err := Equalize(src)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) || !a.Equal(c) {
		t.Fatalf("output depends on worker count: max diff %d / %d",
			imageutil.CalculateMaxDiffGray(a, b), imageutil.CalculateMaxDiffGray(a, c))
	}
}

func TestEqualizeDoesNotModifyInput(t *testing.T) {
	src := imageutil.CreateNoiseImage(64, 64, 8)
	orig := src.Clone()
	if _, err := Equalize(src); err != nil {
		t.Fatal(err)
	}
	if !src.Equal(orig) {
		t.Error("Equalize modified its input")
	}
}

func TestEqualizeExpandsLowContrast(t *testing.T) {
	src := imageutil.CreateLowContrastImage(128, 128, 100, 140)
	out, err := Equalize(src)
	if err != nil {
		t.Fatal(err)
	}
	inLo, inHi := imageutil.ContrastRange(src)
	outLo, outHi := imageutil.ContrastRange(out)
	if int(outHi)-int(outLo) <= int(inHi)-int(inLo) {
		t.Errorf("range [%d,%d] did not widen from [%d,%d]", outLo, outHi, inLo, inHi)
	}
}

func TestEqualizeRelativeClip(t *testing.T) {
	src := imageutil.CreateNoiseImage(256, 256, 5)
	// 32x32 tiles: 2 * 1024 / 256 = 8.
	rel, err := Equalize(src, WithRelativeClipLimit(2))
	if err != nil {
		t.Fatal(err)
	}
	abs, err := Equalize(src, WithClipLimit(8))
	if err != nil {
		t.Fatal(err)
	}
	if !rel.Equal(abs) {
		t.Error("relative clip 2 should match absolute clip 8 on 32x32 tiles")
	}
}

func TestEqualizeIdentityMapping(t *testing.T) {
	src := imageutil.CreateNoiseImage(77, 53, 21)
	out, err := Equalize(src, WithMapper(IdentityMapping), WithTileGrid(5, 3))
	if err != nil {
		t.Fatal(err)
	}
	if !out.Equal(src) {
		t.Errorf("identity mapping changed the image, max diff %d", imageutil.CalculateMaxDiffGray(out, src))
	}
}

func TestEqualizerConcurrentUse(t *testing.T) {
	e := NewEqualizer(WithTileGrid(4, 4), WithWorkers(2))
	src := imageutil.CreateNoiseImage(96, 96, 13)
	want := imageutil.NewGrayImage(96, 96)
	if err := e.Apply(src, want); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	results := make([]*imageutil.GrayImage, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = imageutil.NewGrayImage(96, 96)
			errs[i] = e.Apply(src, results[i])
		}(i)
	}
	wg.Wait()
	for i := range results {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: %v", i, errs[i])
		}
		if !results[i].Equal(want) {
			t.Errorf("goroutine %d produced a different image", i)
		}
	}
}

func TestApplyLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	if _, err := Equalize(imageutil.CreateNoiseImage(64, 64, 2)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"clahe: equalizing", "tilesX=8", "clipLimit=40", "entropyOut="} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func BenchmarkEqualize(b *testing.B) {
	src := imageutil.CreateNoiseImage(1024, 768, 1)
	dst := imageutil.NewGrayImage(1024, 768)
	e := NewEqualizer()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := e.Apply(src, dst); err != nil {
			b.Fatal(err)
		}
	}
}
