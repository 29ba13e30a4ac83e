package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/roundimg"
	"github.com/gogpu/roundimg/codec"
)

// infoCmd prints image metadata
var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show image dimensions, format and size",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	src, info, err := codec.Decoder{MaxBytes: cfg.MaxUploadBytes}.LoadFile(args[0])
	if err != nil {
		return err
	}
	preview := roundimg.PreviewRequest(src, cfg.Radius, cfg.PreviewMaxSize)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:       %s\n", filepath.Base(args[0]))
	fmt.Fprintf(out, "Format:     %s (%s)\n", info.Format, info.MIME)
	fmt.Fprintf(out, "Dimensions: %d × %d\n", info.Width, info.Height)
	fmt.Fprintf(out, "Size:       %s\n", codec.FormatFileSize(info.Size))
	fmt.Fprintf(out, "Preview:    %d × %d (radius %dpx)\n", preview.Width, preview.Height, preview.EffectiveRadius())
	return nil
}
