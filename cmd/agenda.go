package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/punctual/internal/calendar"
	"github.com/manav03panchal/punctual/internal/output"
	"github.com/manav03panchal/punctual/internal/timing"
)

// Agenda command flags.
var (
	agendaFlagSync   bool
	agendaFlagAlerts bool
	agendaFlagLimit  int
)

// agendaCmd shows upcoming meetings and their computed alert times.
var agendaCmd = &cobra.Command{
	Use:     "agenda",
	Aliases: []string{"a", "list", "upcoming"},
	Short:   "Show upcoming meetings",
	Long: `Show upcoming meetings from all calendar sources.

With --alerts, also show when each alert will fire given the current
timing preferences.

Examples:
  punctual agenda
  punctual agenda --sync
  punctual agenda --alerts
  punctual agenda -f json`,
	RunE: runAgenda,
}

func init() {
	agendaCmd.Flags().BoolVar(&agendaFlagSync, "sync", false,
		"Re-fetch all calendar sources before listing")
	agendaCmd.Flags().BoolVar(&agendaFlagAlerts, "alerts", false,
		"Show computed alert fire times instead of events")
	agendaCmd.Flags().IntVarP(&agendaFlagLimit, "limit", "n", 0,
		"Limit the number of events shown (0 = no limit)")

	rootCmd.AddCommand(agendaCmd)
}

// runAgenda handles the agenda command. It is also the root command's
// default action.
func runAgenda(cmd *cobra.Command, args []string) error {
	syncer := calendar.NewSyncer(ctx.SourceRepo, ctx.EventRepo)

	if agendaFlagSync {
		c, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := syncer.SyncAll(c); err != nil {
			ctx.CLIFormatter().Warning("sync failed: " + err.Error())
		}
	}

	now := time.Now()
	events, err := syncer.WorkingSet(now)
	if err != nil {
		return err
	}

	if agendaFlagLimit > 0 && len(events) > agendaFlagLimit {
		events = events[:agendaFlagLimit]
	}

	if agendaFlagAlerts {
		prefs, err := ctx.PrefsRepo.Load()
		if err != nil {
			return err
		}
		alerts := timing.ForEvents(events, prefs, now)

		if ctx.IsJSON() {
			return ctx.Formatter.JSON(output.NewAlertsResponse(alerts))
		}
		ctx.CLIFormatter().PrintAlerts(alerts, now)
		return nil
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewAgendaResponse(events))
	}

	ctx.CLIFormatter().PrintAgenda(events, now)
	return nil
}
