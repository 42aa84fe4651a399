package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/sslchecker/internal/checker"
	"github.com/hamed0406/sslchecker/internal/config"
	"github.com/hamed0406/sslchecker/internal/domain"
	"github.com/hamed0406/sslchecker/internal/httpapi"
	"github.com/hamed0406/sslchecker/internal/logging"
)

var errCheckFailed = errors.New("certificate check failed")

func main() {
	if err := rootCmd().Execute(); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sslcheck",
		Short:         "Check a host's TLS certificate validity",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(checkCmd())
	return root
}

func checkCmd() *cobra.Command {
	var (
		asJSON   bool
		apiBase  string
		apiKey   string
		logLevel string
	)
	cmd := &cobra.Command{
		Use:   "check HOST",
		Short: "Probe HOST:443 and report days until certificate expiry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := httpapi.NormalizeHost(args[0])
			if err != nil {
				return err
			}

			var resp domain.Response
			if apiBase != "" {
				resp, err = remoteCheck(cmd.Context(), apiBase, apiKey, host)
				if err != nil {
					return err
				}
			} else {
				cfg := config.Load()
				if logLevel != "" {
					cfg.LogLevel = logLevel
				}
				logger := zap.NewNop()
				if cfg.LogLevel == "debug" {
					logger = logging.NewStdout(cfg.LogLevel)
				}
				eng, err := checker.Build(cmd.Context(), cfg, logger)
				if err != nil {
					return err
				}
				resp = eng.Check(cmd.Context(), host).Response()
				eng.Wait()
			}
			return printResponse(cmd.OutOrStdout(), resp, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the JSON envelope")
	cmd.Flags().StringVar(&apiBase, "api", os.Getenv("API_BASE"), "check through a running API instead of locally (e.g. http://localhost:8080)")
	cmd.Flags().StringVar(&apiKey, "api-key", os.Getenv("API_KEY"), "API key for --api")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level for local checks (debug logs to stdout)")
	return cmd
}

func printResponse(w io.Writer, resp domain.Response, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w, resp.Message)
	}
	if !resp.Success {
		return errCheckFailed
	}
	return nil
}

func remoteCheck(ctx context.Context, base, key, host string) (domain.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	u := strings.TrimRight(base, "/") + "/check?host=" + url.QueryEscape(host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Response{}, err
	}
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return domain.Response{}, fmt.Errorf("contacting API: %w", err)
	}
	defer resp.Body.Close()

	var out domain.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Response{}, fmt.Errorf("API returned %s: %w", resp.Status, err)
	}
	return out, nil
}
