package roundimg

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
)

var opaqueRed = color.NRGBA{R: 255, A: 255}

// solid returns a w×h image filled with c.
func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// gradient returns a w×h image with varying color and alpha.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: uint8((x + y) % 256),
				A: uint8(128 + (x*y)%128),
			})
		}
	}
	return img
}

func mustSource(t *testing.T, img image.Image) *SourceImage {
	t.Helper()
	src, err := NewSourceImage(img)
	if err != nil {
		t.Fatalf("NewSourceImage() error = %v", err)
	}
	return src
}

func mustExport(t *testing.T, src *SourceImage, req ExportRequest, opts ...Option) *Result {
	t.Helper()
	res, err := Export(src, req, opts...)
	if err != nil {
		t.Fatalf("Export(%+v) error = %v", req, err)
	}
	return res
}

func TestExport_Scenario(t *testing.T) {
	src := mustSource(t, solid(200, 100, opaqueRed))
	res := mustExport(t, src, ExportRequest{CornerRadius: 20, Width: 200, Height: 100})

	if res.Width() != 200 || res.Height() != 100 {
		t.Fatalf("result is %dx%d, want 200x100", res.Width(), res.Height())
	}

	inCorner := func(x, y int) bool {
		return (x < 20 || x >= 180) && (y < 20 || y >= 80)
	}

	img := res.Image()
	for y := range 100 {
		for x := range 200 {
			c := img.NRGBAAt(x, y)
			switch c.A {
			case 0xff:
				if c.R != 255 || c.G != 0 || c.B != 0 {
					t.Fatalf("(%d,%d) = %v, want opaque red", x, y, c)
				}
			case 0:
				if !inCorner(x, y) {
					t.Fatalf("(%d,%d) is transparent outside the corner squares", x, y)
				}
			default:
				t.Fatalf("(%d,%d) alpha = %d, want 0 or 255", x, y, c.A)
			}
		}
	}

	opaque := res.OpaqueCount()
	if opaque >= 20000 || opaque <= 20000-4*20*20 {
		t.Errorf("opaque count = %d, want in (%d, 20000)", opaque, 20000-4*20*20)
	}
}

func TestExport_Idempotent(t *testing.T) {
	src := mustSource(t, gradient(90, 70))
	for _, aa := range []bool{false, true} {
		req := ExportRequest{CornerRadius: 17, Width: 61, Height: 45}
		a := mustExport(t, src, req, WithAntiAlias(aa))
		b := mustExport(t, src, req, WithAntiAlias(aa))
		if !bytes.Equal(a.Image().Pix, b.Image().Pix) {
			t.Errorf("antiAlias=%v: repeated exports differ", aa)
		}
	}
}

func TestExport_ZeroRadiusIdentity(t *testing.T) {
	tests := []struct {
		name string
		img  *image.NRGBA
		w, h int
	}{
		{"same size", solid(40, 30, opaqueRed), 40, 30},
		{"downscale opaque", solid(80, 60, color.NRGBA{R: 10, G: 200, B: 30, A: 255}), 33, 21},
		{"downscale gradient", gradient(64, 48), 32, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := mustSource(t, tt.img)
			res := mustExport(t, src, ExportRequest{CornerRadius: 0, Width: tt.w, Height: tt.h})

			want := CatmullRom.Resample(src.img, tt.w, tt.h)
			if !bytes.Equal(res.Image().Pix, want.Pix) {
				t.Error("zero-radius export differs from plain resample")
			}
			if res.Radius() != 0 {
				t.Errorf("Radius() = %d, want 0", res.Radius())
			}
		})
	}

	// An opaque source stays fully opaque.
	src := mustSource(t, solid(50, 20, opaqueRed))
	res := mustExport(t, src, ExportRequest{Width: 50, Height: 20})
	if got := res.OpaqueCount(); got != 50*20 {
		t.Errorf("opaque count = %d, want %d", got, 50*20)
	}
}

func TestExport_CornerTransparency(t *testing.T) {
	sizes := []image.Point{{200, 100}, {31, 47}, {16, 16}, {5, 9}}
	for _, size := range sizes {
		src := mustSource(t, solid(size.X, size.Y, opaqueRed))
		maxR := min(size.X, size.Y) / 2
		for r := 1; r <= maxR; r++ {
			res := mustExport(t, src, ExportRequest{CornerRadius: r, Width: size.X, Height: size.Y})
			w, h := size.X, size.Y
			for _, p := range []image.Point{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}} {
				if a := res.AlphaAt(p.X, p.Y); a != 0 {
					t.Errorf("%v r=%d: corner %v alpha = %d, want 0", size, r, p, a)
				}
			}
		}
	}
}

func TestExport_CenterOpacity(t *testing.T) {
	src := mustSource(t, solid(120, 80, color.NRGBA{R: 40, G: 50, B: 60, A: 180}))
	const w, h = 60, 40
	scaled := CatmullRom.Resample(src.img, w, h)
	want := scaled.NRGBAAt(w/2, h/2).A

	for _, r := range []int{0, 1, 5, 19, 20, 500} {
		for _, aa := range []bool{false, true} {
			res := mustExport(t, src, ExportRequest{CornerRadius: r, Width: w, Height: h}, WithAntiAlias(aa))
			if got := res.AlphaAt(w/2, h/2); got != want {
				t.Errorf("r=%d aa=%v: center alpha = %d, want %d", r, aa, got, want)
			}
		}
	}
}

func TestExport_RadiusClamp(t *testing.T) {
	src := mustSource(t, gradient(100, 50))
	big := mustExport(t, src, ExportRequest{CornerRadius: 10000, Width: 100, Height: 50})
	exact := mustExport(t, src, ExportRequest{CornerRadius: 25, Width: 100, Height: 50})

	if !bytes.Equal(big.Image().Pix, exact.Image().Pix) {
		t.Error("radius 10000 and radius 25 produce different results")
	}
	if big.Radius() != 25 {
		t.Errorf("Radius() = %d, want 25", big.Radius())
	}
}

func TestExport_MaximalRadiusCircle(t *testing.T) {
	const size = 64
	src := mustSource(t, solid(size, size, opaqueRed))
	res := mustExport(t, src, ExportRequest{CornerRadius: size / 2, Width: size, Height: size})

	// One pixel inside each side's midpoint is fully covered.
	for _, p := range []image.Point{{size / 2, 1}, {size - 2, size / 2}, {size / 2, size - 2}, {1, size / 2}} {
		if a := res.AlphaAt(p.X, p.Y); a != 0xff {
			t.Errorf("pixel %v alpha = %d, want 255", p, a)
		}
	}

	// Opaque area sits between the inscribed diamond and the full square.
	opaque := res.OpaqueCount()
	if opaque <= size*size/2 || opaque >= size*size {
		t.Errorf("opaque count = %d, want in (%d, %d)", opaque, size*size/2, size*size)
	}
}

func TestExport_AntiAlias(t *testing.T) {
	src := mustSource(t, solid(100, 100, opaqueRed))
	req := ExportRequest{CornerRadius: 30, Width: 100, Height: 100}
	bin := mustExport(t, src, req)
	aa := mustExport(t, src, req, WithAntiAlias(true))

	if a := aa.AlphaAt(0, 0); a != 0 {
		t.Errorf("anti-aliased corner alpha = %d, want 0", a)
	}

	partial := 0
	binPix, aaPix := bin.Image().Pix, aa.Image().Pix
	for i := 3; i < len(aaPix); i += 4 {
		if aaPix[i] != 0 && aaPix[i] != 0xff {
			partial++
		}
		if binPix[i] > aaPix[i] {
			t.Fatalf("pixel %d: binary alpha %d exceeds anti-aliased %d", i/4, binPix[i], aaPix[i])
		}
	}
	if partial == 0 {
		t.Error("anti-aliased export has no partially transparent pixels")
	}
}

func TestExport_MaskInTargetSpace(t *testing.T) {
	// A preview of a large source must have the same silhouette as a
	// direct export of a source already at preview size.
	big := mustSource(t, solid(800, 400, opaqueRed))
	small := mustSource(t, solid(400, 200, opaqueRed))

	preview := mustExport(t, big, PreviewRequest(big, 40, 400))
	direct := mustExport(t, small, ExportRequest{CornerRadius: 20, Width: 400, Height: 200})

	if preview.Radius() != 20 {
		t.Fatalf("preview radius = %d, want 20", preview.Radius())
	}
	p, d := preview.Image().Pix, direct.Image().Pix
	for i := 3; i < len(p); i += 4 {
		if p[i] != d[i] {
			t.Fatalf("pixel %d: preview alpha %d, direct alpha %d", i/4, p[i], d[i])
		}
	}
}

func TestExport_InvalidInput(t *testing.T) {
	src := mustSource(t, solid(10, 10, opaqueRed))
	tests := []struct {
		name string
		src  *SourceImage
		req  ExportRequest
	}{
		{"nil source", nil, ExportRequest{Width: 10, Height: 10}},
		{"zero value source", &SourceImage{}, ExportRequest{Width: 10, Height: 10}},
		{"zero width", src, ExportRequest{Width: 0, Height: 10}},
		{"negative height", src, ExportRequest{Width: 10, Height: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Export(tt.src, tt.req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Export() error = %v, want ErrInvalidInput", err)
			}
			if res != nil {
				t.Errorf("Export() result = %v, want nil", res)
			}
		})
	}
}

func TestExport_Progress(t *testing.T) {
	src := mustSource(t, solid(20, 20, opaqueRed))

	for _, r := range []int{0, 5} {
		var stages []Stage
		mustExport(t, src, ExportRequest{CornerRadius: r, Width: 20, Height: 20},
			WithProgress(func(s Stage) { stages = append(stages, s) }))

		want := []Stage{StageSetup, StageMask, StageComposite}
		if len(stages) != len(want) {
			t.Fatalf("r=%d: stages = %v, want %v", r, stages, want)
		}
		for i := range want {
			if stages[i] != want[i] {
				t.Errorf("r=%d: stage %d = %v, want %v", r, i, stages[i], want[i])
			}
		}
	}
}

type badResampler struct{}

func (badResampler) Resample(image.Image, int, int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, 1, 1))
}

func TestExport_ResamplerSizeMismatch(t *testing.T) {
	src := mustSource(t, solid(20, 20, opaqueRed))
	_, err := Export(src, ExportRequest{CornerRadius: 2, Width: 10, Height: 10}, WithResampler(badResampler{}))
	if err == nil {
		t.Fatal("Export() with mis-sized resampler output should fail")
	}
}

func TestExport_ConcurrentPreviewAndFull(t *testing.T) {
	src := mustSource(t, gradient(300, 200))
	full := FullRequest(src, 30)
	preview := PreviewRequest(src, 30, 120)

	wantFull := mustExport(t, src, full)
	wantPreview := mustExport(t, src, preview)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req, want := full, wantFull
			if i%2 == 1 {
				req, want = preview, wantPreview
			}
			res, err := Export(src, req)
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(res.Image().Pix, want.Image().Pix) {
				errs <- errors.New("concurrent export differs from sequential export")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestNewSourceImage(t *testing.T) {
	if _, err := NewSourceImage(nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("NewSourceImage(nil) error = %v, want ErrInvalidInput", err)
	}
	if _, err := NewSourceImage(image.NewNRGBA(image.Rect(0, 0, 0, 5))); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("NewSourceImage(empty) error = %v, want ErrInvalidInput", err)
	}

	orig := solid(4, 3, opaqueRed)
	src := mustSource(t, orig)
	orig.SetNRGBA(0, 0, color.NRGBA{})

	if got := src.NRGBAAt(0, 0); got != opaqueRed {
		t.Errorf("source pixel changed with original: got %v", got)
	}
	if src.Width() != 4 || src.Height() != 3 {
		t.Errorf("source is %dx%d, want 4x3", src.Width(), src.Height())
	}
}

func TestStage(t *testing.T) {
	tests := []struct {
		stage   Stage
		percent int
		msg     string
	}{
		{StageSetup, 20, "Preparing image..."},
		{StageMask, 60, "Applying rounded corners..."},
		{StageComposite, 100, "Complete!"},
		{Stage(9), 0, "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.stage.Percent(); got != tt.percent {
			t.Errorf("Stage(%d).Percent() = %d, want %d", tt.stage, got, tt.percent)
		}
		if got := tt.stage.String(); got != tt.msg {
			t.Errorf("Stage(%d).String() = %q, want %q", tt.stage, got, tt.msg)
		}
	}
}

func TestExport_MaskCache(t *testing.T) {
	mc := NewMaskCache(DefaultMaskCacheBytes)
	src := mustSource(t, gradient(80, 60))
	req := ExportRequest{CornerRadius: 12, Width: 80, Height: 60}

	plain := mustExport(t, src, req)
	first := mustExport(t, src, req, WithMaskCache(mc))
	second := mustExport(t, src, req, WithMaskCache(mc))

	if !bytes.Equal(plain.Image().Pix, first.Image().Pix) || !bytes.Equal(first.Image().Pix, second.Image().Pix) {
		t.Error("cached mask changes the result")
	}
	if mc.Len() != 1 || mc.Hits() != 1 {
		t.Errorf("cache Len=%d Hits=%d, want 1 and 1", mc.Len(), mc.Hits())
	}

	// Anti-aliased masks are cached separately.
	aa := mustExport(t, src, req, WithMaskCache(mc), WithAntiAlias(true))
	if bytes.Equal(aa.Image().Pix, first.Image().Pix) {
		t.Error("anti-aliased export reused the binary mask")
	}
	if mc.Len() != 2 {
		t.Errorf("cache Len=%d, want 2", mc.Len())
	}

	// Zero radius never touches the cache.
	mustExport(t, src, ExportRequest{Width: 80, Height: 60}, WithMaskCache(mc))
	if mc.Len() != 2 {
		t.Errorf("zero-radius export added a mask: Len=%d", mc.Len())
	}
}
