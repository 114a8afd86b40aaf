package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/manav03panchal/punctual/internal/calendar"
	apperrors "github.com/manav03panchal/punctual/internal/errors"
	"github.com/manav03panchal/punctual/internal/model"
	"github.com/manav03panchal/punctual/internal/output"
	"github.com/manav03panchal/punctual/internal/runtime"
	"github.com/manav03panchal/punctual/internal/storage"
	"github.com/manav03panchal/punctual/internal/validate"
)

// Source command flags.
var sourceRemoveFlagForce bool

// sourceCmd manages calendar feed sources.
var sourceCmd = &cobra.Command{
	Use:     "source [command]",
	Aliases: []string{"s", "src", "calendar"},
	Short:   "Manage calendar sources",
	Long: `Manage the ICS calendar feeds that punctual watches.

Examples:
  punctual source add work https://calendar.example.com/work.ics
  punctual source list
  punctual source sync
  punctual source remove work`,
	RunE: runSourceList,
}

// sourceAddCmd adds a calendar source.
var sourceAddCmd = &cobra.Command{
	Use:   "add NAME URL",
	Short: "Add a calendar source",
	Long: `Add an ICS calendar feed.

webcal:// URLs are accepted and fetched over https.

Examples:
  punctual source add work https://calendar.example.com/work.ics
  punctual source add personal webcal://example.com/personal.ics`,
	Args: cobra.ExactArgs(2),
	RunE: runSourceAdd,
}

// sourceListCmd lists calendar sources.
var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List calendar sources",
	RunE:  runSourceList,
}

// sourceSyncCmd re-fetches one or all sources.
var sourceSyncCmd = &cobra.Command{
	Use:     "sync [NAME]",
	Aliases: []string{"test", "refresh"},
	Short:   "Fetch calendar sources now",
	Long: `Fetch one or all calendar feeds immediately.

Examples:
  punctual source sync
  punctual source sync work`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSourceSync,
}

// sourceRemoveCmd removes a calendar source and its events.
var sourceRemoveCmd = &cobra.Command{
	Use:     "remove NAME",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a calendar source",
	Args:    cobra.ExactArgs(1),
	RunE:    runSourceRemove,
}

func init() {
	sourceRemoveCmd.Flags().BoolVar(&sourceRemoveFlagForce, "force", false,
		"Skip confirmation")

	sourceSyncCmd.ValidArgsFunction = completeSourceArgs
	sourceRemoveCmd.ValidArgsFunction = completeSourceArgs

	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceSyncCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)

	rootCmd.AddCommand(sourceCmd)
}

// completeSourceArgs provides completion for source names.
func completeSourceArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	if ctx == nil {
		opts := runtime.DefaultOptions()
		var err error
		ctx, err = runtime.New(opts)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer ctx.Close()
	}

	sources, err := ctx.SourceRepo.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, src := range sources {
		if strings.HasPrefix(src.Name, toComplete) {
			names = append(names, src.Name)
		}
	}

	return names, cobra.ShellCompDirectiveNoFileComp
}

// normalizeFeedURL rewrites webcal:// URLs to https://.
func normalizeFeedURL(feedURL string) string {
	if strings.HasPrefix(feedURL, "webcal://") {
		return "https://" + strings.TrimPrefix(feedURL, "webcal://")
	}
	return feedURL
}

// runSourceAdd handles the source add command.
func runSourceAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	feedURL := args[1]

	if err := validate.Name(name); err != nil {
		return err
	}
	if err := validate.FeedURL(feedURL); err != nil {
		return err
	}

	if _, err := ctx.SourceRepo.GetByName(name); err == nil {
		return fmt.Errorf("source %q already exists", name)
	}

	source := model.NewSource(uuid.NewString(), name, normalizeFeedURL(feedURL))
	if err := ctx.SourceRepo.Create(source); err != nil {
		return err
	}

	// Fetch immediately so the agenda is useful right away.
	syncer := calendar.NewSyncer(ctx.SourceRepo, ctx.EventRepo)
	c, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	syncErr := syncer.SyncSource(c, source)

	if ctx.IsJSON() {
		out := output.NewSourceOutput(source)
		if syncErr != nil {
			out.LastError = syncErr.Error()
		}
		return ctx.Formatter.JSON(out)
	}

	cli := ctx.CLIFormatter()
	cli.Success("Added source: " + name)
	if syncErr != nil {
		cli.Warning("initial sync failed: " + syncErr.Error())
		ctx.Formatter.Printf("Retry with: punctual source sync %s\n", name)
	} else {
		ctx.Formatter.Println("View meetings with: punctual agenda")
	}

	return nil
}

// runSourceList handles the source list command.
func runSourceList(cmd *cobra.Command, args []string) error {
	sources, err := ctx.SourceRepo.List()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewSourcesResponse(sources))
	}

	if len(sources) == 0 {
		ctx.Formatter.Println("No calendar sources configured.")
		ctx.Formatter.Println("")
		ctx.Formatter.Println("Add one with: punctual source add work <url>")
		return nil
	}

	ctx.CLIFormatter().PrintSources(sources)
	return nil
}

// runSourceSync handles the source sync command.
func runSourceSync(cmd *cobra.Command, args []string) error {
	syncer := calendar.NewSyncer(ctx.SourceRepo, ctx.EventRepo)
	c, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	if len(args) == 1 {
		source, err := ctx.SourceRepo.GetByName(args[0])
		if err != nil {
			if storage.IsErrKeyNotFound(err) {
				return apperrors.ErrSourceNotFound
			}
			return err
		}

		if err := syncer.SyncSource(c, source); err != nil {
			return err
		}

		if ctx.IsJSON() {
			source, _ = ctx.SourceRepo.Get(source.ID)
			return ctx.Formatter.JSON(output.NewSourceOutput(source))
		}
		ctx.CLIFormatter().Success("Synced source: " + source.Name)
		return nil
	}

	if err := syncer.SyncAll(c); err != nil {
		return err
	}

	sources, err := ctx.SourceRepo.List()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewSourcesResponse(sources))
	}

	ctx.CLIFormatter().Success(fmt.Sprintf("Synced %d sources", len(sources)))
	return nil
}

// runSourceRemove handles the source remove command.
func runSourceRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	source, err := ctx.SourceRepo.GetByName(name)
	if err != nil {
		if storage.IsErrKeyNotFound(err) {
			return apperrors.ErrSourceNotFound
		}
		return err
	}

	if !sourceRemoveFlagForce && !ctx.IsJSON() {
		ctx.Formatter.Printf("Remove source %q and its events? [y/N] ", name)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			ctx.Formatter.Println("Cancelled.")
			return nil
		}
	}

	if err := ctx.EventRepo.DeleteBySource(source.ID); err != nil {
		return err
	}
	if err := ctx.SourceRepo.Delete(source.ID); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status": "removed",
			"source": name,
		})
	}

	ctx.CLIFormatter().Success("Removed source: " + name)
	return nil
}
