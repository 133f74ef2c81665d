package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pocketsiem/pocketsiem/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is overridden via -ldflags "-X main.version=...".
var version = "dev"

var (
	serverURL string
	apiKey    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "siemctl",
	Short: "pocketSIEM command-line interface",
	Long: `siemctl talks to a running pocketSIEM server.

It can check IP reputation, submit threat reports, and dump the
device-stats and attack-surface aggregates.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		viper.SetEnvPrefix("siemctl")
		viper.AutomaticEnv()
		if serverURL == "" {
			serverURL = viper.GetString("server")
		}
		if serverURL == "" {
			serverURL = "http://localhost:8080"
		}
		if apiKey == "" {
			apiKey = viper.GetString("api_key")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "pocketSIEM server URL (default http://localhost:8080)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "shared API key (env SIEMCTL_API_KEY)")

	rootCmd.AddCommand(reputationCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(surfaceCmd)
	rootCmd.AddCommand(versionCmd)

	reportCmd.Flags().StringVar(&reportApp, "app", "", "reporting application name (required)")
	reportCmd.Flags().StringVar(&reportIP, "ip", "", "target IP address (required)")
	reportCmd.Flags().StringVar(&reportDevice, "device", "", "reporting device ID (required)")
	reportCmd.Flags().StringVar(&reportProtocol, "protocol", "", "protocol, e.g. TCP")
	reportCmd.Flags().StringVar(&reportDescription, "description", "", "free-text description")
	reportCmd.Flags().IntVar(&reportSeverity, "severity", 0, "user severity 0-100")
	_ = reportCmd.MarkFlagRequired("app")
	_ = reportCmd.MarkFlagRequired("ip")
	_ = reportCmd.MarkFlagRequired("device")
}

func newClient() *client.Client {
	return client.New(serverURL, client.WithAPIKey(apiKey))
}

var reputationCmd = &cobra.Command{
	Use:   "reputation <ip>",
	Short: "Check the reputation of an IP address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		rec, err := newClient().CheckReputation(ctx, args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "IP:\t%s\n", rec.IP)
		fmt.Fprintf(w, "Risk score:\t%d\n", rec.RiskScore)
		fmt.Fprintf(w, "Category:\t%s\n", rec.Category)
		fmt.Fprintf(w, "Malicious:\t%v\n", rec.IsMalicious)
		fmt.Fprintf(w, "Source:\t%s\n", rec.Source)
		return w.Flush()
	},
}

var (
	reportApp         string
	reportIP          string
	reportDevice      string
	reportProtocol    string
	reportDescription string
	reportSeverity    int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Submit a threat report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		rep, err := newClient().SubmitReport(ctx, &client.ReportRequest{
			AppName:      reportApp,
			TargetIP:     reportIP,
			DeviceID:     reportDevice,
			Protocol:     reportProtocol,
			Description:  reportDescription,
			UserSeverity: &reportSeverity,
		})
		if err != nil {
			return err
		}
		fmt.Printf("report stored: id=%s reported_at=%s\n", rep.ID, rep.ReportedAt.Format(time.RFC3339))
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show device security statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		stats, err := newClient().DeviceStats(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Trust score:\t%d\n", stats.DeviceTrustScore)
		fmt.Fprintf(w, "Threats blocked:\t%d\n", stats.ThreatsBlocked)
		fmt.Fprintf(w, "Critical:\t%d\n", stats.CriticalThreats)
		fmt.Fprintf(w, "High:\t%d\n", stats.HighThreats)
		fmt.Fprintf(w, "Suspicious:\t%d\n", stats.SuspiciousConnections)
		return w.Flush()
	},
}

var surfaceCmd = &cobra.Command{
	Use:   "surface",
	Short: "Dump the attack-surface time series",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		points, err := newClient().AttackSurface(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tTHREATS\tTRAFFIC")
		for _, p := range points {
			fmt.Fprintf(w, "%s\t%d\t%d\n", p.TimeLabel, p.ThreatCount, p.NetworkTraffic)
		}
		return w.Flush()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the siemctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("siemctl", version)
	},
}
