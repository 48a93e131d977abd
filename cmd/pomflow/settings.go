package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pomflow/internal/model"
	"pomflow/internal/timer"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change timer settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Change settings",
	Long: `Change one or more settings. Keys:

  focus, short-break, long-break   durations in minutes
  interval                         focus intervals before a long break
  auto-breaks, auto-focus          start the next interval automatically
  sound                            digital, bell or bird
  volume                           alarm volume from 0 to 1

The timer is refilled for the new durations unless it is running.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsSetCmd, settingsResetCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(engine *timer.Engine) error {
		return printSettings(cmd.OutOrStdout(), engine.Settings())
	})
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(engine *timer.Engine) error {
		settings := engine.Settings()
		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("expected key=value, got %q", arg)
			}
			if err := applySetting(&settings, strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
				return err
			}
		}
		if err := settings.Validate(); err != nil {
			return err
		}
		engine.ApplySettings(settings)
		return printSettings(cmd.OutOrStdout(), engine.Settings())
	})
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(engine *timer.Engine) error {
		engine.ApplySettings(model.DefaultSettings())
		return printSettings(cmd.OutOrStdout(), engine.Settings())
	})
}

func applySetting(s *model.Settings, key, value string) error {
	var err error
	switch key {
	case "focus":
		s.FocusMinutes, err = parseCount(key, value)
	case "short-break":
		s.ShortBreakMinutes, err = parseCount(key, value)
	case "long-break":
		s.LongBreakMinutes, err = parseCount(key, value)
	case "interval":
		s.LongBreakInterval, err = parseCount(key, value)
	case "auto-breaks":
		s.AutoStartBreaks, err = parseBool(key, value)
	case "auto-focus":
		s.AutoStartFocus, err = parseBool(key, value)
	case "sound":
		s.AlarmSound, err = model.ParseAlarmSound(value)
	case "volume":
		s.AlarmVolume, err = strconv.ParseFloat(value, 64)
		if err != nil {
			err = fmt.Errorf("volume: %q is not a number", value)
		}
	default:
		err = fmt.Errorf("unknown setting %q", key)
	}
	return err
}

func parseCount(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a whole number", key, value)
	}
	return n, nil
}

func parseBool(key, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %q is not on or off", key, value)
	}
	return b, nil
}

func printSettings(w io.Writer, s model.Settings) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "focus\t%d min\n", s.FocusMinutes)
	fmt.Fprintf(tw, "short-break\t%d min\n", s.ShortBreakMinutes)
	fmt.Fprintf(tw, "long-break\t%d min\n", s.LongBreakMinutes)
	fmt.Fprintf(tw, "interval\t%d\n", s.LongBreakInterval)
	fmt.Fprintf(tw, "auto-breaks\t%s\n", onOff(s.AutoStartBreaks))
	fmt.Fprintf(tw, "auto-focus\t%s\n", onOff(s.AutoStartFocus))
	fmt.Fprintf(tw, "sound\t%s\n", s.AlarmSound)
	fmt.Fprintf(tw, "volume\t%s\n", strconv.FormatFloat(s.AlarmVolume, 'g', -1, 64))
	return tw.Flush()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
