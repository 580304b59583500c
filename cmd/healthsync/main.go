package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	adapthttp "healthsync/internal/adapter/http"
	"healthsync/internal/adapter/memory"
	"healthsync/internal/adapter/rest"
	"healthsync/internal/adapter/sqlite"
	"healthsync/internal/app"
	"healthsync/internal/config"
	"healthsync/internal/domain"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "healthsync",
		Short:         "Health metric sync and aggregation engine",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(serveCmd(), addCmd(), undoCmd(), refreshCmd(), weekCmd(), dayCmd(), grantCmd())
	return root
}

type env struct {
	cfg     *config.Config
	log     zerolog.Logger
	session *app.SyncSession
	close   func()
}

func buildEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).With().
		Str("service", "healthsync").
		Timestamp().
		Logger().
		Level(level)

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var platform domain.HealthPlatform
	switch cfg.PlatformMode {
	case config.PlatformRest:
		platform = rest.New(cfg.PlatformURL, cfg.PlatformToken)
	default:
		platform = memory.NewPlatform()
	}

	gate := app.NewPermissionGate(platform)
	adapter := app.NewSyncAdapter(gate, platform, domain.DeviceInfo{Name: cfg.DeviceName, Model: "go-engine"})
	session := app.NewSyncSession(gate, adapter, store, store, log)

	return &env{
		cfg:     cfg,
		log:     log,
		session: session,
		close:   func() { _ = store.Close() },
	}, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API for the UI layer",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEnv()
			if err != nil {
				return err
			}
			defer e.close()

			e.session.CheckPermissions(cmd.Context())
			h := adapthttp.New(e.session, e.log).Handler()
			e.log.Info().Str("addr", e.cfg.Addr).Msg("listening")
			if err := http.ListenAndServe(e.cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <metric> <value>",
		Short: "Record a reading",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := domain.ParseMetric(args[0])
			if err != nil {
				return err
			}
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q", args[1])
			}

			e, err := buildEnv()
			if err != nil {
				return err
			}
			defer e.close()

			e.session.CheckPermissions(cmd.Context())
			res, err := e.session.AddReading(cmd.Context(), m, value)
			if err != nil {
				return err
			}
			fmt.Printf("%s = %v %s on %s (synced: %v)\n",
				m, res.Snapshot.LatestValue, m.Unit(), res.Snapshot.DayKey, res.Synced)
			if res.Notice != "" {
				fmt.Println(res.Notice)
			}
			return nil
		},
	}
}

func undoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo <metric>",
		Short: "Undo the most recently synced entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := domain.ParseMetric(args[0])
			if err != nil {
				return err
			}

			e, err := buildEnv()
			if err != nil {
				return err
			}
			defer e.close()

			e.session.CheckPermissions(cmd.Context())
			res, err := e.session.UndoLast(cmd.Context(), m)
			if err != nil {
				return err
			}
			if !res.Undone {
				fmt.Println("nothing to undo")
				return nil
			}
			fmt.Printf("undid %s; today now %v %s\n", res.ExternalID, res.NewValue, m.Unit())
			if res.Notice != "" {
				fmt.Println(res.Notice)
			}
			return nil
		},
	}
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <metric>",
		Short: "Re-sync today's readings from the health platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := domain.ParseMetric(args[0])
			if err != nil {
				return err
			}

			e, err := buildEnv()
			if err != nil {
				return err
			}
			defer e.close()

			e.session.CheckPermissions(cmd.Context())
			res, err := e.session.Refresh(cmd.Context(), m)
			if err != nil {
				return err
			}
			if res.SyncFailed {
				fmt.Println(res.Notice)
				return nil
			}
			printWeek(m, res.Week)
			return nil
		},
	}
}

func weekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week <metric>",
		Short: "Show the rolling seven-day series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := domain.ParseMetric(args[0])
			if err != nil {
				return err
			}

			e, err := buildEnv()
			if err != nil {
				return err
			}
			defer e.close()

			e.session.CheckPermissions(cmd.Context())
			week, err := e.session.WeeklySeries(cmd.Context(), m)
			if err != nil {
				return err
			}
			printWeek(m, week)
			return nil
		},
	}
}

func dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day <metric> <YYYY-MM-DD>",
		Short: "Show the hour-by-hour detail of one day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := domain.ParseMetric(args[0])
			if err != nil {
				return err
			}

			e, err := buildEnv()
			if err != nil {
				return err
			}
			defer e.close()

			e.session.CheckPermissions(cmd.Context())
			detail, notice, err := e.session.DayDetail(cmd.Context(), m, args[1])
			if err != nil {
				return err
			}
			if detail == nil {
				fmt.Println(notice)
				return nil
			}
			fmt.Printf("%s %s: avg %v, min %v, max %v (%s)\n",
				detail.DayKey, m.Unit(), detail.Average, detail.Min, detail.Max, detail.Category)
			for _, b := range detail.Hours {
				if b.HasData {
					fmt.Printf("  %02d:00  %v\n", b.Hour, b.Value)
				}
			}
			return nil
		},
	}
}

func grantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant [metric...]",
		Short: "Request platform access and show the resulting grants",
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics := domain.Metrics()
			if len(args) > 0 {
				metrics = metrics[:0]
				for _, name := range args {
					m, err := domain.ParseMetric(name)
					if err != nil {
						return err
					}
					metrics = append(metrics, m)
				}
			}

			e, err := buildEnv()
			if err != nil {
				return err
			}
			defer e.close()

			states := e.session.RequestPermissions(cmd.Context(), metrics...)
			for _, st := range states {
				fmt.Printf("%-18s read=%v write=%v\n", st.MetricType, st.CanRead, st.CanWrite)
			}
			return nil
		},
	}
}

func printWeek(m domain.MetricType, week []domain.DayAggregate) {
	for _, d := range week {
		marker := " "
		if d.IsToday {
			marker = "*"
		}
		fmt.Printf("%s %s  avg %v %s (min %v, max %v)\n", marker, d.DayKey, d.Average, m.Unit(), d.Min, d.Max)
	}
}
