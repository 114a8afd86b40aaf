package cmd

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	apperrors "github.com/manav03panchal/punctual/internal/errors"
	"github.com/manav03panchal/punctual/internal/model"
	"github.com/manav03panchal/punctual/internal/output"
	"github.com/manav03panchal/punctual/internal/parser"
	"github.com/manav03panchal/punctual/internal/validate"
)

// Remind command flags.
var (
	remindFlagLength string
	remindFlagLink   string
)

// defaultMeetingLength is assumed when --length is not given.
const defaultMeetingLength = 30 * time.Minute

// remindCmd creates a manual one-off meeting alert.
var remindCmd = &cobra.Command{
	Use:     "remind TITLE WHEN",
	Aliases: []string{"r", "alarm"},
	Short:   "Create a one-off meeting reminder",
	Long: `Create a manual meeting that alerts like any calendar event.

The time portion is recognized from the first token that reads as a
time, so quoting is optional.

Examples:
  punctual remind standup tomorrow 9am
  punctual remind "design review" friday 14:00
  punctual remind dentist +45m
  punctual remind 1on1 tomorrow 3pm --length 30m --link https://meet.example.com/xyz`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRemind,
}

func init() {
	remindCmd.Flags().StringVar(&remindFlagLength, "length", "",
		"Meeting length, e.g. 30m, 1h, 1h30m (default 30m)")
	remindCmd.Flags().StringVar(&remindFlagLink, "link", "",
		"Meeting link to offer for joining")

	rootCmd.AddCommand(remindCmd)
}

// runRemind handles the remind command.
func runRemind(cmd *cobra.Command, args []string) error {
	title, timeExpr := parser.SplitTitleAndTime(args)

	if err := validate.Title(title); err != nil {
		return err
	}
	title = validate.SanitizeTitle(title)

	result := parser.ParseStartTime(timeExpr)
	if result.Error != nil {
		return result.Error
	}
	start := result.Time
	if !start.After(time.Now()) {
		return apperrors.ErrDeadlineInPast
	}

	length := defaultMeetingLength
	if remindFlagLength != "" {
		parsed := parser.ParseLength(remindFlagLength)
		if !parsed.Valid {
			return apperrors.NewUserErrorWithField(
				"length", remindFlagLength,
				"could not understand the meeting length",
				`try "30m", "1h", or "1h30m"`)
		}
		length = parsed.Duration
	}

	if remindFlagLink != "" {
		if err := validate.FeedURL(remindFlagLink); err != nil {
			return err
		}
	}

	id := uuid.NewString()
	event := &model.Event{
		Key:         model.GenerateEventKey(id),
		ID:          id,
		Title:       title,
		Start:       start,
		End:         start.Add(length),
		MeetingLink: remindFlagLink,
		SourceID:    "manual",
		Manual:      true,
	}

	if err := ctx.EventRepo.Create(event); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewEventOutput(*event))
	}

	ctx.CLIFormatter().PrintEventCreated(*event, time.Now())
	return nil
}
