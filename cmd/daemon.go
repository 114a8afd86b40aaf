package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/punctual/internal/daemon"
	"github.com/manav03panchal/punctual/internal/output"
	"github.com/manav03panchal/punctual/internal/runtime"
)

// Daemon command flags.
var (
	daemonStartFlagForeground bool
	daemonLogsFlagTail        int
	daemonInstallFlagForce    bool
)

// daemonCmd represents the daemon command.
var daemonCmd = &cobra.Command{
	Use:     "daemon [command]",
	Aliases: []string{"d", "bg", "service"},
	Short:   "Manage the background daemon",
	Long: `Manage the Punctual background daemon that syncs calendars and
delivers meeting alerts to webhooks.

Examples:
  punctual daemon start
  punctual daemon status
  punctual daemon stop
  punctual daemon logs --tail 20`,
	RunE: runDaemonStatus,
}

// daemonStartCmd starts the daemon.
var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the background daemon",
	Long: `Start the Punctual background daemon.

The daemon fetches calendar sources on a schedule and delivers alerts
via configured webhooks.

Examples:
  punctual daemon start               # Start in background
  punctual daemon start --foreground  # Stay attached (for debugging)`,
	RunE: runDaemonStart,
}

// daemonStopCmd stops the daemon.
var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background daemon",
	RunE:  runDaemonStop,
}

// daemonStatusCmd shows daemon status.
var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	RunE:  runDaemonStatus,
}

// daemonLogsCmd shows daemon logs.
var daemonLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View daemon logs",
	Long: `View the daemon log file.

Examples:
  punctual daemon logs
  punctual daemon logs --tail 50`,
	RunE: runDaemonLogs,
}

// daemonInstallCmd installs the daemon as a system service.
var daemonInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install daemon as a system service",
	Long: `Install the Punctual daemon as a system service that starts on login.

On macOS, this creates a launchd agent in ~/Library/LaunchAgents.
On Linux, this creates a systemd user service in ~/.config/systemd/user.

Examples:
  punctual daemon install
  punctual daemon install --force   # Reinstall if already installed`,
	RunE: runDaemonInstall,
}

// daemonUninstallCmd uninstalls the daemon system service.
var daemonUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall daemon system service",
	Long: `Remove the Punctual daemon from system services.

This stops the service and removes the service configuration.`,
	RunE: runDaemonUninstall,
}

func init() {
	daemonStartCmd.Flags().BoolVar(&daemonStartFlagForeground, "foreground", false,
		"Run in foreground (don't daemonize)")

	daemonLogsCmd.Flags().IntVarP(&daemonLogsFlagTail, "tail", "n", 20,
		"Number of lines to show")

	daemonInstallCmd.Flags().BoolVar(&daemonInstallFlagForce, "force", false,
		"Force reinstall if already installed")

	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonLogsCmd)
	daemonCmd.AddCommand(daemonInstallCmd)
	daemonCmd.AddCommand(daemonUninstallCmd)

	rootCmd.AddCommand(daemonCmd)
}

// runDaemonStart handles the daemon start command.
func runDaemonStart(cmd *cobra.Command, args []string) error {
	if !daemonStartFlagForeground {
		// Background mode: spawn the child without opening the database,
		// the child needs the badger lock.
		d := daemon.NewDaemon(nil, Version)
		d.SetDebug(flagDebug)

		if d.IsRunning() {
			status := d.GetStatus()
			return fmt.Errorf("daemon is already running (PID: %d)", status.PID)
		}

		fmt.Println("Starting punctual daemon...")
		pid, err := d.StartBackground()
		if err != nil {
			return err
		}

		fmt.Printf("Daemon started (PID: %d)\n", pid)
		return nil
	}

	// Foreground mode owns the database for the life of the process.
	rctx, err := runtime.New(optionsFromFlags())
	if err != nil {
		return err
	}
	defer rctx.Close()

	d := daemon.NewDaemon(rctx.DB, Version)
	d.SetDebug(flagDebug)

	if d.IsRunning() {
		status := d.GetStatus()
		return fmt.Errorf("daemon is already running (PID: %d)", status.PID)
	}

	enabled, err := rctx.WebhookRepo.ListEnabled()
	if err == nil && len(enabled) == 0 {
		fmt.Println("Warning: no webhooks configured. Add with: punctual webhook add")
		fmt.Println("")
	}

	fmt.Println("Starting punctual daemon (foreground mode)...")
	return d.Start(context.Background())
}

// runDaemonStop handles the daemon stop command.
func runDaemonStop(cmd *cobra.Command, args []string) error {
	d := daemon.NewDaemon(nil, Version)

	if !d.IsRunning() {
		if flagFormat == "json" {
			return stdoutFormatter().JSON(&output.StatusResponse{
				Running: false,
				Message: "not running",
			})
		}
		fmt.Println("Daemon is not running")
		return nil
	}

	status := d.GetStatus()
	pid := status.PID

	fmt.Println("Stopping punctual daemon...")

	if err := d.Stop(); err != nil {
		return err
	}

	if flagFormat == "json" {
		return stdoutFormatter().JSON(&output.StatusResponse{
			Running: false,
			PID:     pid,
			Message: "stopped",
		})
	}
	fmt.Printf("Daemon stopped (was PID: %d)\n", pid)
	return nil
}

// runDaemonStatus handles the daemon status command.
func runDaemonStatus(cmd *cobra.Command, args []string) error {
	d := daemon.NewDaemon(nil, Version)
	status := d.GetStatus()

	if flagFormat == "json" {
		return stdoutFormatter().JSON(status)
	}

	fmt.Println("Punctual Daemon Status")
	fmt.Println("")

	if status.Running {
		fmt.Printf("  Status:    running\n")
		fmt.Printf("  PID:       %d\n", status.PID)
		fmt.Printf("  Uptime:    %s\n", status.Uptime)
	} else {
		fmt.Printf("  Status:    stopped\n")
		fmt.Println("")
		fmt.Println("Start with: punctual daemon start")
	}

	return nil
}

// stdoutFormatter builds a bare formatter for daemon commands, which run
// without the shared runtime context.
func stdoutFormatter() *output.Formatter {
	return &output.Formatter{
		Writer:    os.Stdout,
		Format:    output.FormatJSON,
		ColorMode: output.ColorNever,
	}
}

// runDaemonLogs handles the daemon logs command.
func runDaemonLogs(cmd *cobra.Command, args []string) error {
	logPath := daemon.GetLogPath()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Println("No log file found.")
		fmt.Printf("Log path: %s\n", logPath)
		return nil
	}

	lines, err := tailFile(logPath, daemonLogsFlagTail)
	if err != nil {
		return err
	}

	for _, line := range lines {
		fmt.Println(line)
	}

	return nil
}

// tailFile reads the last n lines from a file.
func tailFile(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > n {
			lines = lines[1:]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// runDaemonInstall handles the daemon install command.
func runDaemonInstall(cmd *cobra.Command, args []string) error {
	mgr, err := daemon.NewServiceManager()
	if err != nil {
		return err
	}
	mgr.SetDebug(flagDebug)

	if mgr.IsInstalled() && !daemonInstallFlagForce {
		fmt.Println("Service is already installed.")
		fmt.Println("Use --force to reinstall.")
		return nil
	}

	if mgr.IsInstalled() && daemonInstallFlagForce {
		fmt.Println("Removing existing service...")
		if err := mgr.Uninstall(); err != nil {
			return fmt.Errorf("failed to remove existing service: %w", err)
		}
	}

	fmt.Println("Installing punctual daemon as a system service...")
	if err := mgr.Install(); err != nil {
		return err
	}

	fmt.Println("Service installed. It will start automatically on login.")
	return nil
}

// runDaemonUninstall handles the daemon uninstall command.
func runDaemonUninstall(cmd *cobra.Command, args []string) error {
	mgr, err := daemon.NewServiceManager()
	if err != nil {
		return err
	}
	mgr.SetDebug(flagDebug)

	if !mgr.IsInstalled() {
		fmt.Println("Service is not installed.")
		return nil
	}

	fmt.Println("Removing punctual daemon service...")
	if err := mgr.Uninstall(); err != nil {
		return err
	}

	fmt.Println("Service removed.")
	return nil
}
