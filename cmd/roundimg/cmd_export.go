package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/roundimg"
	"github.com/gogpu/roundimg/codec"
)

var (
	exportRadius      int
	exportOutDir      string
	exportPrefix      string
	exportFilter      string
	exportAntiAlias   bool
	exportWithPreview bool
)

// now is replaced in tests for stable filenames.
var now = time.Now

// masks is shared by every export in this process; watch mode and batches
// of same-sized images reuse corner masks.
var masks = roundimg.NewMaskCache(roundimg.DefaultMaskCacheBytes)

// exportCmd writes rounded copies of one or more images
var exportCmd = &cobra.Command{
	Use:   "export <file>...",
	Short: "Write rounded copies of images",
	Long: `Decodes each file, clips it to a rounded rectangle at full resolution and
writes <prefix>-<radius>px-<timestamp>.png to the output directory.

Files are processed independently: a failure is reported and the remaining
files are still exported.`,
	Example: `  roundimg export --radius 40 photo.jpg
  roundimg export --anti-alias --filter lanczos --with-preview *.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().IntVarP(&exportRadius, "radius", "r", 0, "Corner radius in pixels (default from config)")
	exportCmd.Flags().StringVarP(&exportOutDir, "out-dir", "o", "", "Output directory (default from config)")
	exportCmd.Flags().StringVar(&exportPrefix, "prefix", "", "Filename prefix (default from config)")
	exportCmd.Flags().StringVar(&exportFilter, "filter", "", "Resampling filter: catmull-rom, bilinear, lanczos")
	exportCmd.Flags().BoolVar(&exportAntiAlias, "anti-alias", false, "Soften corner edges")
	exportCmd.Flags().BoolVar(&exportWithPreview, "with-preview", false, "Also write a downscaled preview")
}

// exportSettings is the resolved configuration for one export run.
type exportSettings struct {
	radius      int
	outDir      string
	prefix      string
	filter      string
	antiAlias   bool
	withPreview bool
	previewMax  int
	maxBytes    int64
	primary     codec.Encoder
	fallback    codec.Encoder
}

// resolveExportSettings merges command flags over the loaded config.
func resolveExportSettings(cmd *cobra.Command) (exportSettings, error) {
	s := exportSettings{
		radius:      cfg.Radius,
		outDir:      cfg.OutputDir,
		prefix:      cfg.Prefix,
		filter:      cfg.Filter,
		antiAlias:   cfg.AntiAlias,
		withPreview: exportWithPreview,
		previewMax:  cfg.PreviewMaxSize,
		maxBytes:    cfg.MaxUploadBytes,
	}
	flags := cmd.Flags()
	if flags.Changed("radius") {
		s.radius = exportRadius
	}
	if flags.Changed("out-dir") {
		s.outDir = exportOutDir
	}
	if flags.Changed("prefix") {
		s.prefix = exportPrefix
	}
	if flags.Changed("filter") {
		s.filter = exportFilter
	}
	if flags.Changed("anti-alias") {
		s.antiAlias = exportAntiAlias
	}
	s.prefix = codec.EffectivePrefix(s.prefix)
	if s.radius < 0 {
		return s, fmt.Errorf("radius must be non-negative, got %d", s.radius)
	}

	var err error
	if s.primary, s.fallback, err = encodersFromConfig(); err != nil {
		return s, err
	}
	return s, nil
}

// encodersFromConfig returns the configured primary and fallback encoders.
func encodersFromConfig() (primary, fallback codec.Encoder, err error) {
	pf, err := codec.ParseFormat(cfg.Encoding.Primary)
	if err != nil {
		return nil, nil, err
	}
	if primary, err = codec.EncoderFor(pf); err != nil {
		return nil, nil, err
	}
	if cfg.Encoding.Fallback == "" {
		return primary, nil, nil
	}
	ff, err := codec.ParseFormat(cfg.Encoding.Fallback)
	if err != nil {
		return nil, nil, err
	}
	if fallback, err = codec.EncoderFor(ff); err != nil {
		return nil, nil, err
	}
	return primary, fallback, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := resolveExportSettings(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		written, err := exportFile(ctx, path, s, out)
		for _, w := range written {
			fmt.Fprintf(out, "wrote %s\n", w)
		}
		if err != nil {
			failed++
			logger.Error("export failed", zap.String("file", path), zap.Error(err))
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

// exportFile exports one file and returns the paths it wrote.
func exportFile(ctx context.Context, path string, s exportSettings, progress io.Writer) ([]string, error) {
	src, info, err := codec.Decoder{MaxBytes: s.maxBytes}.LoadFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded image",
		zap.String("file", path),
		zap.String("format", info.Format),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
		zap.String("size", codec.FormatFileSize(info.Size)))

	resampler, err := roundimg.ResamplerByName(s.filter)
	if err != nil {
		return nil, err
	}
	opts := []roundimg.Option{
		roundimg.WithResampler(resampler),
		roundimg.WithAntiAlias(s.antiAlias),
		roundimg.WithMaskCache(masks),
	}
	fullOpts := append(opts[:len(opts):len(opts)],
		roundimg.WithProgress(progressPrinter(progress, filepath.Base(path))))

	var full, preview *roundimg.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		full, err = roundimg.Export(src, roundimg.FullRequest(src, s.radius), fullOpts...)
		return err
	})
	if s.withPreview {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var err error
			preview, err = roundimg.Export(src, roundimg.PreviewRequest(src, s.radius, s.previewMax), opts...)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	ts := now()
	prefix := codec.EffectivePrefix(s.prefix)
	var written []string
	for _, item := range []struct {
		res    *roundimg.Result
		prefix string
	}{
		{full, prefix},
		{preview, prefix + "-preview"},
	} {
		if item.res == nil {
			continue
		}
		dst, err := writeResult(item.res.Image(), item.res.Radius(), s.outDir, item.prefix, ts, s.primary, s.fallback)
		if err != nil {
			return written, err
		}
		written = append(written, dst)
	}
	return written, nil
}

// writeResult encodes img and writes it under a generated filename.
func writeResult(img image.Image, radius int, dir, prefix string, ts time.Time, primary, fallback codec.Encoder) (string, error) {
	enc, err := codec.EncodeImage(img, primary, fallback)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(dir, codec.Filename(prefix, radius, ts, enc.Format))
	if err := writeEncoded(dst, enc, radius); err != nil {
		return "", err
	}
	return dst, nil
}

// writeEncoded writes enc to dst.
func writeEncoded(dst string, enc *codec.Encoded, radius int) error {
	if err := os.WriteFile(dst, enc.Data, 0o644); err != nil { //nolint:gosec // output images are public
		return fmt.Errorf("write %s: %w", dst, err)
	}
	logger.Info("exported",
		zap.String("path", dst),
		zap.Int("radius", radius),
		zap.Stringer("format", enc.Format),
		zap.String("size", codec.FormatFileSize(int64(len(enc.Data)))))
	return nil
}
