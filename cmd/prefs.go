package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/punctual/internal/model"
	"github.com/manav03panchal/punctual/internal/output"
	"github.com/manav03panchal/punctual/internal/validate"
)

// Prefs command flags.
var (
	prefsFlagDefault     int
	prefsFlagShort       int
	prefsFlagMedium      int
	prefsFlagLong        int
	prefsFlagLengthBased bool
	prefsFlagSound       bool
	prefsFlagSoundMins   int
	prefsFlagAutoJoin    bool
	prefsFlagSnooze      int
)

// prefsCmd manages timing preferences.
var prefsCmd = &cobra.Command{
	Use:     "prefs [command]",
	Aliases: []string{"p", "preferences", "settings"},
	Short:   "Show or change alert timing preferences",
	Long: `Show or change when alerts fire relative to meeting start.

Examples:
  punctual prefs show
  punctual prefs set --default 10
  punctual prefs set --length-based --short 2 --medium 5 --long 10
  punctual prefs set --sound --sound-minutes 1
  punctual prefs set --snooze 5`,
	RunE: runPrefsShow,
}

// prefsShowCmd shows the current preferences.
var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current timing preferences",
	RunE:  runPrefsShow,
}

// prefsSetCmd changes preferences.
var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change timing preferences",
	Long: `Change timing preferences. Only the flags you pass are changed.

The running daemon picks up changes on its next sync pass; watch mode
applies them immediately.`,
	RunE: runPrefsSet,
}

func init() {
	prefsSetCmd.Flags().IntVar(&prefsFlagDefault, "default", 0,
		"Minutes before start for the reminder alert")
	prefsSetCmd.Flags().IntVar(&prefsFlagShort, "short", 0,
		"Minutes before start for meetings under 30 minutes")
	prefsSetCmd.Flags().IntVar(&prefsFlagMedium, "medium", 0,
		"Minutes before start for meetings of 30-60 minutes")
	prefsSetCmd.Flags().IntVar(&prefsFlagLong, "long", 0,
		"Minutes before start for meetings over an hour")
	prefsSetCmd.Flags().BoolVar(&prefsFlagLengthBased, "length-based", false,
		"Pick minutes-before by meeting length instead of the default")
	prefsSetCmd.Flags().BoolVar(&prefsFlagSound, "sound", false,
		"Add a second, sound-only alert")
	prefsSetCmd.Flags().IntVar(&prefsFlagSoundMins, "sound-minutes", 0,
		"Minutes before start for the sound alert")
	prefsSetCmd.Flags().BoolVar(&prefsFlagAutoJoin, "auto-join", false,
		"Open the meeting link at start instead of an overlay")
	prefsSetCmd.Flags().IntVar(&prefsFlagSnooze, "snooze", 0,
		"Default snooze minutes offered by the overlay")

	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsSetCmd)

	rootCmd.AddCommand(prefsCmd)
}

// runPrefsShow handles the prefs show command.
func runPrefsShow(cmd *cobra.Command, args []string) error {
	prefs, err := ctx.PrefsRepo.Load()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewPreferencesOutput(prefs))
	}

	ctx.CLIFormatter().PrintPreferences(prefs)
	return nil
}

// runPrefsSet handles the prefs set command.
func runPrefsSet(cmd *cobra.Command, args []string) error {
	prefs, err := ctx.PrefsRepo.Load()
	if err != nil {
		return err
	}

	minuteFlags := map[string]*int{
		"default":       &prefs.DefaultMinutes,
		"short":         &prefs.ShortMinutes,
		"medium":        &prefs.MediumMinutes,
		"long":          &prefs.LongMinutes,
		"sound-minutes": &prefs.SoundMinutes,
	}
	values := map[string]int{
		"default":       prefsFlagDefault,
		"short":         prefsFlagShort,
		"medium":        prefsFlagMedium,
		"long":          prefsFlagLong,
		"sound-minutes": prefsFlagSoundMins,
	}

	changed := false
	for name, target := range minuteFlags {
		if !cmd.Flags().Changed(name) {
			continue
		}
		value := values[name]
		if err := validate.InRange(name, value, model.MinAlertMinutes, model.MaxAlertMinutes); err != nil {
			return err
		}
		*target = value
		changed = true
	}

	if cmd.Flags().Changed("snooze") {
		if err := validate.InRange("snooze", prefsFlagSnooze, 1, model.MaxAlertMinutes); err != nil {
			return err
		}
		prefs.SnoozeMinutes = prefsFlagSnooze
		changed = true
	}
	if cmd.Flags().Changed("length-based") {
		prefs.UseLengthBased = prefsFlagLengthBased
		changed = true
	}
	if cmd.Flags().Changed("sound") {
		prefs.SoundEnabled = prefsFlagSound
		changed = true
	}
	if cmd.Flags().Changed("auto-join") {
		prefs.AutoJoin = prefsFlagAutoJoin
		changed = true
	}

	if !changed {
		ctx.Formatter.Println("Nothing to change. See: punctual prefs set --help")
		return nil
	}

	saved, err := ctx.PrefsRepo.Save(prefs)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewPreferencesOutput(saved))
	}

	ctx.CLIFormatter().Success("Preferences updated")
	ctx.CLIFormatter().PrintPreferences(saved)
	return nil
}
