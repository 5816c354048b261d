package imageutil

import "testing"

func TestNewKernelValidation(t *testing.T) {
	tests := []struct {
		name   string
		values [][]float64
		ok     bool
	}{
		{"3x3", [][]float64{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}}, true},
		{"1x1", [][]float64{{1}}, true},
		{"empty", nil, false},
		{"even height", [][]float64{{1}, {1}}, false},
		{"even width", [][]float64{{1, 1}}, false},
		{"ragged", [][]float64{{1, 1, 1}, {1}, {1, 1, 1}}, false},
	}
	for _, tc := range tests {
		_, err := NewKernel(tc.values)
		if (err == nil) != tc.ok {
			t.Errorf("%s: err = %v, want ok=%v", tc.name, err, tc.ok)
		}
	}
}

func TestConvolveGrayIdentity(t *testing.T) {
	img := CreateNoiseImage(20, 15, 4)
	k, err := NewKernel([][]float64{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if out := ConvolveGray(img, k); !out.Equal(img) {
		t.Error("identity kernel changed the image")
	}
}

func TestDenoise(t *testing.T) {
	flat := CreateUniformImage(16, 16, 120)
	for _, size := range []int{3, 5} {
		out, err := Denoise(flat, size)
		if err != nil {
			t.Fatal(err)
		}
		if !out.Equal(flat) {
			t.Errorf("size %d: blur of a flat image should be flat", size)
		}
	}

	noise := CreateNoiseImage(64, 64, 1)
	out, err := Denoise(noise, 5)
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := ContrastRange(out)
	if int(hi)-int(lo) >= 255 {
		t.Errorf("blurred noise still spans [%d,%d]", lo, hi)
	}

	same, err := Denoise(noise, 0)
	if err != nil || same != noise {
		t.Errorf("size 0 should return the input, err = %v", err)
	}
	if _, err := Denoise(noise, 4); err == nil {
		t.Error("size 4 should be rejected")
	}
}

func TestResizeGray(t *testing.T) {
	img := CreateUniformImage(100, 50, 200)
	for _, interp := range []Interpolation{InterpolationCatmullRom, InterpolationLinear, InterpolationNearest} {
		out := ResizeGray(img, 40, 20, interp)
		if out.Width() != 40 || out.Height() != 20 {
			t.Fatalf("size = %dx%d", out.Width(), out.Height())
		}
		// The float kernels may round one level either way.
		if lo, hi := ContrastRange(out); lo < 199 || hi > 201 {
			t.Errorf("interp %d: flat image resized to range [%d,%d]", interp, lo, hi)
		}
	}
}

func TestFitGray(t *testing.T) {
	img := NewGrayImage(400, 100)
	out := FitGray(img, 200, InterpolationLinear)
	if out.Width() != 200 || out.Height() != 50 {
		t.Errorf("landscape fit = %dx%d, want 200x50", out.Width(), out.Height())
	}

	tall := NewGrayImage(30, 300)
	out = FitGray(tall, 100, InterpolationNearest)
	if out.Width() != 10 || out.Height() != 100 {
		t.Errorf("portrait fit = %dx%d, want 10x100", out.Width(), out.Height())
	}

	if FitGray(img, 1000, InterpolationLinear) != img {
		t.Error("image within bounds should be returned unchanged")
	}
	if FitGray(img, 0, InterpolationLinear) != img {
		t.Error("maxSide 0 should disable fitting")
	}
}

func TestParseInterpolation(t *testing.T) {
	tests := map[string]Interpolation{
		"catmullrom": InterpolationCatmullRom,
		"Linear":     InterpolationLinear,
		"nearest":    InterpolationNearest,
		"":           InterpolationCatmullRom,
	}
	for name, want := range tests {
		got, err := ParseInterpolation(name)
		if err != nil || got != want {
			t.Errorf("ParseInterpolation(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseInterpolation("lanczos"); err == nil {
		t.Error("unknown name should fail")
	}
}
