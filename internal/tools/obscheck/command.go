// Package obscheck probes a running instance's health endpoints and renders
// the results for terminal use. It is wired as a subcommand of the server
// binary so deployments need no extra tooling.
package obscheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

type options struct {
	baseURL string
	timeout time.Duration
	ci      bool
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

func NewCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "obscheck",
		Short: "Probe the liveness and readiness endpoints of a running instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return run(ctx, cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "API base URL")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "overall probe timeout")
	cmd.Flags().BoolVar(&opts.ci, "ci", false, "plain machine-readable output")
	return cmd
}

type probeResult struct {
	Endpoint string
	Status   int
	Latency  time.Duration
	Checks   []readinessCheck
	Err      error
}

type readinessCheck struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

func run(ctx context.Context, out io.Writer, opts *options) error {
	results := []probeResult{
		probe(ctx, opts.baseURL+"/health/live", false),
		probe(ctx, opts.baseURL+"/health/ready", true),
	}

	failed := false
	if !opts.ci {
		fmt.Fprintln(out, headStyle.Render("health probes: "+opts.baseURL))
	}
	for _, res := range results {
		ok := res.Err == nil && res.Status == http.StatusOK
		if !ok {
			failed = true
		}
		if opts.ci {
			status := "ok"
			if !ok {
				status = "failed"
			}
			fmt.Fprintf(out, "%s %s status=%d latency_ms=%d\n", res.Endpoint, status, res.Status, res.Latency.Milliseconds())
		} else {
			mark := okStyle.Render("✓")
			if !ok {
				mark = failStyle.Render("✗")
			}
			fmt.Fprintf(out, "%s %s %s\n", mark, res.Endpoint, dimStyle.Render(res.Latency.Round(time.Millisecond).String()))
			if res.Err != nil {
				fmt.Fprintf(out, "  %s\n", failStyle.Render(res.Err.Error()))
			}
		}
		for _, check := range res.Checks {
			line := fmt.Sprintf("  %s (%dms)", check.Name, check.LatencyMS)
			if check.Status == "ok" {
				if !opts.ci {
					line = okStyle.Render("  ·") + line
				}
			} else {
				failed = true
				if opts.ci {
					line += " error=" + check.Error
				} else {
					line = failStyle.Render("  ·") + line + " " + failStyle.Render(check.Error)
				}
			}
			fmt.Fprintln(out, line)
		}
	}
	if failed {
		return fmt.Errorf("one or more health probes failed")
	}
	return nil
}

func probe(ctx context.Context, url string, parseChecks bool) probeResult {
	res := probeResult{Endpoint: url}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		res.Err = err
		return res
	}
	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	res.Latency = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()
	res.Status = resp.StatusCode

	if parseChecks {
		var payload struct {
			Data struct {
				Checks []readinessCheck `json:"checks"`
			} `json:"data"`
			Error struct {
				Details struct {
					Checks []readinessCheck `json:"checks"`
				} `json:"details"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			res.Checks = payload.Data.Checks
			if len(res.Checks) == 0 {
				res.Checks = payload.Error.Details.Checks
			}
		}
	}
	return res
}
