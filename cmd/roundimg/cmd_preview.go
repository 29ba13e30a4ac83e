package main

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/spf13/cobra"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/roundimg"
	"github.com/gogpu/roundimg/codec"
)

var (
	previewRadius  int
	previewMaxSize int
	previewMatte   bool
	previewOut     string
)

// previewCmd writes a downscaled rounded preview
var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Write a downscaled rounded preview",
	Long: `Fits the image inside a max-size box, scales the radius by the same
factor and writes the rounded preview. With --matte the transparent corners
are filled with the current theme's background color.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().IntVarP(&previewRadius, "radius", "r", 0, "Corner radius in source pixels (default from config)")
	previewCmd.Flags().IntVar(&previewMaxSize, "max-size", 0, "Longest preview side (default from config)")
	previewCmd.Flags().BoolVar(&previewMatte, "matte", false, "Flatten onto the theme background")
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "Output file (default: generated name in output dir)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	radius, maxSize := cfg.Radius, cfg.PreviewMaxSize
	if cmd.Flags().Changed("radius") {
		radius = previewRadius
	}
	if cmd.Flags().Changed("max-size") {
		maxSize = previewMaxSize
	}
	if radius < 0 {
		return fmt.Errorf("radius must be non-negative, got %d", radius)
	}

	src, _, err := codec.Decoder{MaxBytes: cfg.MaxUploadBytes}.LoadFile(args[0])
	if err != nil {
		return err
	}
	resampler, err := roundimg.ResamplerByName(cfg.Filter)
	if err != nil {
		return err
	}

	res, err := roundimg.Export(src, roundimg.PreviewRequest(src, radius, maxSize),
		roundimg.WithResampler(resampler),
		roundimg.WithAntiAlias(cfg.AntiAlias))
	if err != nil {
		return err
	}

	var img image.Image = res.Image()
	if previewMatte {
		img = flatten(res.Image(), prefs.Theme.Matte())
	}

	primary, fallback, err := encodersFromConfig()
	if err != nil {
		return err
	}

	dst := previewOut
	if dst == "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		dst, err = writeResult(img, res.Radius(), cfg.OutputDir, cfg.Prefix+"-preview", now(), primary, fallback)
		if err != nil {
			return err
		}
	} else {
		enc, err := codec.EncodeImage(img, primary, fallback)
		if err != nil {
			return err
		}
		if err := writeEncoded(dst, enc, res.Radius()); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d × %d, radius %dpx)\n", dst, res.Width(), res.Height(), res.Radius())
	return nil
}

// flatten composites img over an opaque background color.
func flatten(img *image.NRGBA, bg color.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(img.Rect)
	xdraw.Draw(out, out.Rect, image.NewUniform(bg), image.Point{}, xdraw.Src)
	xdraw.Draw(out, out.Rect, img, img.Rect.Min, xdraw.Over)
	return out
}
