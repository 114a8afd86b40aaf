package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/manav03panchal/punctual/internal/errors"
	"github.com/manav03panchal/punctual/internal/model"
	"github.com/manav03panchal/punctual/internal/notify"
	"github.com/manav03panchal/punctual/internal/output"
	"github.com/manav03panchal/punctual/internal/runtime"
	"github.com/manav03panchal/punctual/internal/validate"
)

// Webhook command flags.
var (
	webhookAddFlagType     string
	webhookAddFlagTemplate string
	webhookRemoveFlagForce bool
	webhookTestFlagAll     bool
)

// webhookCmd represents the webhook command.
var webhookCmd = &cobra.Command{
	Use:     "webhook [command]",
	Aliases: []string{"w", "wh", "hook"},
	Short:   "Configure alert webhooks",
	Long: `Configure webhooks for Discord, Slack, or custom endpoints.

In daemon mode, meeting alerts are delivered to every enabled webhook.

Examples:
  punctual webhook add discord https://discord.com/api/webhooks/...
  punctual webhook add slack https://hooks.slack.com/services/...
  punctual webhook list
  punctual webhook test discord
  punctual webhook disable slack
  punctual webhook remove discord`,
	RunE: runWebhookList,
}

// webhookAddCmd adds a new webhook.
var webhookAddCmd = &cobra.Command{
	Use:   "add NAME URL",
	Short: "Add a new webhook",
	Long: `Add a webhook for receiving meeting alerts.

The webhook type is auto-detected from the URL:
  - Discord: discord.com/api/webhooks/...
  - Slack:   hooks.slack.com/services/...
  - Generic: Any other URL

Examples:
  punctual webhook add discord https://discord.com/api/webhooks/123/abc
  punctual webhook add my-webhook https://example.com/hook --type generic`,
	Args: cobra.ExactArgs(2),
	RunE: runWebhookAdd,
}

// webhookListCmd lists all webhooks.
var webhookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all webhooks",
	RunE:  runWebhookList,
}

// webhookTestCmd tests a webhook.
var webhookTestCmd = &cobra.Command{
	Use:   "test [NAME]",
	Short: "Test a webhook by sending a test alert",
	Long: `Send a test alert to verify webhook configuration.

Examples:
  punctual webhook test discord
  punctual webhook test --all`,
	RunE: runWebhookTest,
}

// webhookRemoveCmd removes a webhook.
var webhookRemoveCmd = &cobra.Command{
	Use:     "remove NAME",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a webhook",
	Args:    cobra.ExactArgs(1),
	RunE:    runWebhookRemove,
}

// webhookEnableCmd enables a webhook.
var webhookEnableCmd = &cobra.Command{
	Use:   "enable NAME",
	Short: "Enable a webhook",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhookEnable,
}

// webhookDisableCmd disables a webhook.
var webhookDisableCmd = &cobra.Command{
	Use:   "disable NAME",
	Short: "Disable a webhook",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhookDisable,
}

func init() {
	webhookAddCmd.Flags().StringVarP(&webhookAddFlagType, "type", "t", "",
		"Webhook type: discord, slack, generic (auto-detected from URL if not specified)")
	webhookAddCmd.Flags().StringVar(&webhookAddFlagTemplate, "template", "",
		"Custom payload template (generic type only)")

	webhookRemoveCmd.Flags().BoolVar(&webhookRemoveFlagForce, "force", false,
		"Skip confirmation")

	webhookTestCmd.Flags().BoolVarP(&webhookTestFlagAll, "all", "a", false,
		"Test all enabled webhooks")

	// Dynamic completion for webhook names
	webhookTestCmd.ValidArgsFunction = completeWebhookArgs
	webhookRemoveCmd.ValidArgsFunction = completeWebhookArgs
	webhookEnableCmd.ValidArgsFunction = completeWebhookArgs
	webhookDisableCmd.ValidArgsFunction = completeWebhookArgs

	webhookCmd.AddCommand(webhookAddCmd)
	webhookCmd.AddCommand(webhookListCmd)
	webhookCmd.AddCommand(webhookTestCmd)
	webhookCmd.AddCommand(webhookRemoveCmd)
	webhookCmd.AddCommand(webhookEnableCmd)
	webhookCmd.AddCommand(webhookDisableCmd)

	rootCmd.AddCommand(webhookCmd)
}

// completeWebhookArgs provides completion for webhook names.
func completeWebhookArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
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

	webhooks, err := ctx.WebhookRepo.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, wh := range webhooks {
		if strings.HasPrefix(wh.Name, toComplete) {
			names = append(names, wh.Name)
		}
	}

	return names, cobra.ShellCompDirectiveNoFileComp
}

// runWebhookAdd handles the webhook add command.
func runWebhookAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	webhookURL := args[1]

	if !model.IsValidWebhookName(name) {
		return apperrors.NewUserErrorWithField("name", name,
			"invalid webhook name",
			"Use letters, digits, dash or underscore, max 50 chars")
	}

	if err := validate.WebhookURL(webhookURL); err != nil {
		return err
	}

	exists, err := ctx.WebhookRepo.Exists(name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("webhook %q already exists", name)
	}

	webhookType := webhookAddFlagType
	if webhookType == "" {
		webhookType = model.DetectWebhookType(webhookURL)
	}
	if !model.IsValidWebhookType(webhookType) {
		return apperrors.NewUserErrorWithField("type", webhookType,
			"invalid webhook type",
			"Must be discord, slack, or generic")
	}

	webhook := model.NewWebhook(name, webhookType, webhookURL)
	if webhookAddFlagTemplate != "" {
		webhook.Template = webhookAddFlagTemplate
	}

	if err := ctx.WebhookRepo.Create(webhook); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewWebhookOutput(webhook))
	}

	cli := ctx.CLIFormatter()
	cli.Success("Added webhook: " + name)
	ctx.Formatter.Printf("  Type: %s\n", webhook.Type)
	ctx.Formatter.Printf("  URL: %s\n", webhook.MaskedURL())
	ctx.Formatter.Println("")
	ctx.Formatter.Printf("Test with: punctual webhook test %s\n", name)

	return nil
}

// runWebhookList handles the webhook list command.
func runWebhookList(cmd *cobra.Command, args []string) error {
	webhooks, err := ctx.WebhookRepo.List()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewWebhooksResponse(webhooks))
	}

	if len(webhooks) == 0 {
		ctx.Formatter.Println("No webhooks configured.")
		ctx.Formatter.Println("")
		ctx.Formatter.Println("Add one with: punctual webhook add discord <url>")
		return nil
	}

	ctx.CLIFormatter().PrintWebhooks(webhooks)
	return nil
}

// runWebhookTest handles the webhook test command.
func runWebhookTest(cmd *cobra.Command, args []string) error {
	dispatcher := notify.NewDispatcher(ctx.WebhookRepo)
	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if webhookTestFlagAll {
		webhooks, err := ctx.WebhookRepo.ListEnabled()
		if err != nil {
			return err
		}
		if len(webhooks) == 0 {
			return fmt.Errorf("no enabled webhooks to test")
		}

		var results []map[string]interface{}
		cli := ctx.CLIFormatter()
		for _, wh := range webhooks {
			result := dispatcher.TestWebhook(c, wh.Name)
			if ctx.IsJSON() {
				results = append(results, testResultJSON(result))
				continue
			}
			if result.Success {
				cli.Success(fmt.Sprintf("%s: delivered in %dms", result.WebhookName, result.Duration.Milliseconds()))
			} else {
				cli.Error(fmt.Sprintf("%s: %s", result.WebhookName, result.Error))
			}
		}

		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]interface{}{"results": results})
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("webhook name required (or use --all)")
	}
	name := args[0]

	if !ctx.IsJSON() {
		ctx.Formatter.Printf("Testing webhook: %s\n", name)
	}

	result := dispatcher.TestWebhook(c, name)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(testResultJSON(result))
	}

	cli := ctx.CLIFormatter()
	if result.Success {
		cli.Success(fmt.Sprintf("Delivered in %dms", result.Duration.Milliseconds()))
		ctx.Formatter.Println("Check your channel for the test alert.")
	} else {
		cli.Error(fmt.Sprintf("Failed: %s", result.Error))
		ctx.Formatter.Println("The webhook URL may be invalid or the service unavailable.")
	}

	return nil
}

// testResultJSON shapes a dispatch result for JSON output.
func testResultJSON(result notify.DispatchResult) map[string]interface{} {
	out := map[string]interface{}{
		"webhook":     result.WebhookName,
		"success":     result.Success,
		"status_code": result.StatusCode,
		"duration_ms": result.Duration.Milliseconds(),
	}
	if result.Error != nil {
		out["error"] = result.Error.Error()
	}
	return out
}

// runWebhookRemove handles the webhook remove command.
func runWebhookRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	exists, err := ctx.WebhookRepo.Exists(name)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrWebhookNotFound
	}

	if !webhookRemoveFlagForce && !ctx.IsJSON() {
		ctx.Formatter.Printf("Remove webhook %q? [y/N] ", name)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			ctx.Formatter.Println("Cancelled.")
			return nil
		}
	}

	if err := ctx.WebhookRepo.Delete(name); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status":  "removed",
			"webhook": name,
		})
	}

	ctx.CLIFormatter().Success("Removed webhook: " + name)
	return nil
}

// runWebhookEnable handles the webhook enable command.
func runWebhookEnable(cmd *cobra.Command, args []string) error {
	name := args[0]

	if err := ctx.WebhookRepo.Enable(name); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status":  "enabled",
			"webhook": name,
		})
	}

	ctx.CLIFormatter().Success("Enabled webhook: " + name)
	return nil
}

// runWebhookDisable handles the webhook disable command.
func runWebhookDisable(cmd *cobra.Command, args []string) error {
	name := args[0]

	if err := ctx.WebhookRepo.Disable(name); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status":   "disabled",
			"webhook":  name,
		})
	}

	ctx.CLIFormatter().Success("Disabled webhook: " + name)
	return nil
}
