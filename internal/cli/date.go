package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/httputil/date"
)

func newDateCmd() *cobra.Command {
	var pattern, tz string

	cmd := &cobra.Command{
		Use:   "date",
		Short: "Parse, format and shift dates",
		Long: `Date patterns use SimpleDateFormat letters, for example
"yyyy-MM-dd HH:mm:ss" (the default) or "dd MMM yyyy".`,
	}
	cmd.PersistentFlags().StringVarP(&pattern, "pattern", "p", date.DefaultPattern, "Date pattern")
	cmd.PersistentFlags().StringVar(&tz, "tz", "", "Time zone name such as UTC or Europe/Berlin (default local)")

	calendar := func() (*date.Calendar, error) {
		if tz == "" {
			return date.New(), nil
		}
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid time zone %q: %w", tz, err)
		}
		return date.New(date.WithLocation(loc)), nil
	}

	printFormatted := func(cmd *cobra.Command, cal *date.Calendar, t time.Time) error {
		s, err := cal.Format(t, pattern)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	}

	formatCmd := &cobra.Command{
		Use:   "format TIMESTAMP",
		Short: "Format a Unix timestamp in seconds or milliseconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := calendar()
			if err != nil {
				return err
			}
			ts, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid timestamp %q", args[0])
			}
			return printFormatted(cmd, cal, cal.FromTimestamp(ts))
		},
	}

	parseCmd := &cobra.Command{
		Use:   "parse VALUE",
		Short: "Parse a date and print its Unix timestamp in milliseconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := calendar()
			if err != nil {
				return err
			}
			t, err := cal.Parse(args[0], pattern)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.UnixMilli())
			return nil
		},
	}

	startCmd := &cobra.Command{
		Use:   "start YEAR MONTH DAY",
		Short: "Print the start of the given day",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := calendar()
			if err != nil {
				return err
			}
			var parts [3]int
			for i, arg := range args {
				if parts[i], err = strconv.Atoi(arg); err != nil {
					return fmt.Errorf("invalid number %q", arg)
				}
			}
			return printFormatted(cmd, cal, cal.StartOfDay(parts[0], time.Month(parts[1]), parts[2]))
		},
	}

	var days, months, years int
	addCmd := &cobra.Command{
		Use:   "add VALUE",
		Short: "Shift a date by years, months and days and print the start of that day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := calendar()
			if err != nil {
				return err
			}
			t, err := cal.Parse(args[0], pattern)
			if err != nil {
				return err
			}
			return printFormatted(cmd, cal, cal.AddDate(t, days, months, years))
		},
	}
	addCmd.Flags().IntVar(&days, "days", 0, "Days to add (may be negative)")
	addCmd.Flags().IntVar(&months, "months", 0, "Months to add (may be negative)")
	addCmd.Flags().IntVar(&years, "years", 0, "Years to add (may be negative)")

	todayCmd := &cobra.Command{
		Use:   "today",
		Short: "Print the start of the current day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := calendar()
			if err != nil {
				return err
			}
			return printFormatted(cmd, cal, cal.Today())
		},
	}

	cmd.AddCommand(formatCmd, parseCmd, startCmd, addCmd, todayCmd)
	return cmd
}
