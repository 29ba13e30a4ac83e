package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gogpu/roundimg"
)

const progressWidth = 20

// progressPrinter returns a ProgressFunc that draws one bar line per stage.
func progressPrinter(w io.Writer, label string) roundimg.ProgressFunc {
	if w == nil {
		return nil
	}
	return func(s roundimg.Stage) {
		filled := s.Percent() * progressWidth / 100
		bar := strings.Repeat("=", filled) + strings.Repeat(" ", progressWidth-filled)
		fmt.Fprintf(w, "%s [%s] %3d%% %s\n", label, bar, s.Percent(), s)
	}
}
