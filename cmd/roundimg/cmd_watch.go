package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gogpu/roundimg/codec"
	"github.com/gogpu/roundimg/internal/watch"
)

// watchCmd exports every image dropped into a directory
var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Export images as they appear in a directory",
	Long: `Watches a directory and exports each image once it has stopped changing.
Files whose names start with the output prefix are skipped so the watcher
never re-processes its own output. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVarP(&exportRadius, "radius", "r", 0, "Corner radius in pixels (default from config)")
	watchCmd.Flags().StringVarP(&exportOutDir, "out-dir", "o", "", "Output directory (default: the watched directory)")
	watchCmd.Flags().StringVar(&exportPrefix, "prefix", "", "Filename prefix (default from config)")
	watchCmd.Flags().StringVar(&exportFilter, "filter", "", "Resampling filter: catmull-rom, bilinear, lanczos")
	watchCmd.Flags().BoolVar(&exportAntiAlias, "anti-alias", false, "Soften corner edges")
	watchCmd.Flags().BoolVar(&exportWithPreview, "with-preview", false, "Also write a downscaled preview")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	s, err := resolveExportSettings(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("out-dir") && s.outDir == "." {
		s.outDir = dir
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newDropWatcher(dir, s, cmd)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s (Ctrl+C to stop)\n", dir)
	<-ctx.Done()

	st := w.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "stopped: %d exported, %d failed, %d watch errors\n", st.Handled, st.Failed, st.Errors)
	return nil
}

// newDropWatcher builds a watcher that exports each settled image in dir.
func newDropWatcher(dir string, s exportSettings, cmd *cobra.Command) (*watch.Watcher, error) {
	// Match the name codec.Filename generates so output is never re-exported.
	outPrefix := codec.EffectivePrefix(s.prefix) + "-"
	match := func(path string) bool {
		name := filepath.Base(path)
		return codec.IsImageExt(filepath.Ext(name)) && !strings.HasPrefix(name, outPrefix)
	}

	handle := func(ctx context.Context, path string) error {
		written, err := exportFile(ctx, path, s, nil)
		for _, dst := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", dst)
		}
		if err != nil {
			logger.Error("export failed", zap.String("file", path), zap.Error(err))
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
		}
		return err
	}

	return watch.New(dir, handle, watch.Options{
		Debounce: cfg.GetDebounce(),
		Match:    match,
		Logger:   logger.Named("watch"),
	})
}
