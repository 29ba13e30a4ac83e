package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/roundimg/internal/config"
)

// themeCmd shows or changes the persisted theme
var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the color theme",
	Long:      `The theme selects the background color used by "preview --matte".`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "toggle"},
	RunE:      runTheme,
}

func runTheme(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		fmt.Fprintln(out, prefs.Theme)
		return nil
	}

	if args[0] == "toggle" {
		prefs.Toggle()
	} else {
		t, err := config.ParseTheme(args[0])
		if err != nil {
			return err
		}
		prefs.Theme = t
	}

	if err := prefs.Save(prefsPath); err != nil {
		return err
	}
	fmt.Fprintln(out, prefs.Theme)
	return nil
}
