package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	service "github.com/okian/recruitportal/internal/app"
	"github.com/okian/recruitportal/internal/config"
	"github.com/okian/recruitportal/pkg/logger"
	"github.com/okian/recruitportal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// cliApp carries what every subcommand shares.
type cliApp struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	baseURL  string
	logLevel string
	yes      bool

	cfg     *config.Config
	term    *terminal
	session *service.Session
	metrics *http.Server
}

// setup loads configuration and starts the session. Flags override config.
func (a *cliApp) setup(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	// Logs go to stderr so command output stays parseable.
	if err := logger.InitWithOptions(logger.Options{Writer: a.errOut, Format: logger.Format(cfg.LogFormat)}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	a.term = newTerminal(a.in, a.out)
	a.term.assume = a.yes
	a.session = service.New(
		service.WithConfig(cfg),
		service.WithLogger(logger.Named(appName)),
		service.WithNotifier(a.term),
		service.WithNavigator(a.term),
	)
	if err := a.session.Start(ctx); err != nil {
		return err
	}
	return a.serveMetrics(ctx)
}

// serveMetrics exposes /metrics while the command runs when metrics_addr is set.
func (a *cliApp) serveMetrics(ctx context.Context) error {
	if a.cfg.MetricsAddr == "" {
		return nil
	}
	ln, err := net.Listen("tcp", a.cfg.MetricsAddr)
	if err != nil {
		return fmt.Errorf("listen metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	a.metrics = &http.Server{Handler: mux, ReadHeaderTimeout: readHeaderTimeout}
	go func() {
		if err := a.metrics.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Get().Error(ctx, "metrics server failed", logger.Error(err))
		}
	}()
	return nil
}

func (a *cliApp) teardown() {
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = a.metrics.Shutdown(ctx)
	}
	if a.session != nil {
		a.session.Stop()
	}
}

// execute runs one invocation and always tears the session down, even when
// the command failed.
func execute(ctx context.Context, in io.Reader, out, errOut io.Writer, args []string) error {
	a := &cliApp{in: in, out: out, errOut: errOut}
	defer a.teardown()

	cmd := rootCmd(a)
	if args != nil {
		cmd.SetArgs(args)
	}
	return cmd.ExecuteContext(ctx)
}

func rootCmd(a *cliApp) *cobra.Command {
	in, out, errOut := a.in, a.out, a.errOut
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Recruitment portal client",
		Long:          "Sign in with an emailed one-time password and work with the candidate or recruiter dashboard.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "Portal backend URL (overrides PORTAL_BASE_URL)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&a.yes, "yes", "y", false, "Answer yes to confirmation prompts")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})
	cmd.AddCommand(loginCmd(a), signupCmd(a), logoutCmd(a))
	cmd.AddCommand(jobsCmd(a), applyCmd(a), summaryCmd(a))
	cmd.AddCommand(recruiterCmd(a))
	return cmd
}
