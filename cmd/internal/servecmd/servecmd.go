// Package servecmd builds the root command shared by the date server binaries.
package servecmd

import (
	"fmt"
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skycoin/dateserver"
	"github.com/skycoin/dateserver/cmdutil"
	"github.com/skycoin/dateserver/httputil"
	"github.com/skycoin/dateserver/metricsutil"
	"github.com/skycoin/dateserver/models"
	"github.com/skycoin/dateserver/servermetrics"
)

// ExitConfigError is the exit status for a missing or invalid port.
const ExitConfigError = 1

// New returns the root command of a date server dispatching connections
// with strategy.
func New(name, short string, strategy dateserver.Strategy) *cobra.Command {
	var sf cmdutil.ServiceFlags

	cmd := &cobra.Command{
		Use:   name + " <port>",
		Short: short,
		Run: func(_ *cobra.Command, args []string) {
			port, err := dateserver.ParsePort(args)
			if err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
				os.Exit(ExitConfigError)
			}

			logger := sf.Logger()

			var m servermetrics.Metrics
			if sf.MetricsAddr == "" {
				m = servermetrics.NewEmpty()
			} else {
				m = servermetrics.NewVictoriaMetrics()
			}

			conf := dateserver.DefaultConfig(strategy)
			srv, err := dateserver.NewServer(&conf, m)
			if err != nil {
				logger.Fatalf("Failed to create server: %v", err)
			}
			srv.SetLogger(logger)

			addr := dateserver.ListenAddr(port)
			lis, err := listen(addr, sf.ProxyProtocol, ProxyHeaderTimeout)
			if err != nil {
				logger.Fatalf("Error listening on %s: %v", addr, err)
			}

			metricsutil.ServeHTTP(logger, sf.MetricsAddr, apiRouter(logger, srv, time.Now()))

			if err := srv.Serve(lis); err != nil {
				logger.WithError(err).Fatal("Date server stopped.")
			}
		},
	}

	sf.Init(cmd, name)

	cmd.SetUsageTemplate(help)
	var helpflag bool
	cmd.PersistentFlags().BoolVarP(&helpflag, "help", "h", false, "help for "+name)
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.PersistentFlags().MarkHidden("help") //nolint

	return cmd
}

func apiRouter(log logrus.FieldLogger, srv *dateserver.Server, startedAt time.Time) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(httputil.NewLogMiddleware(log))

	metricsutil.AddMetricsHandle(r)
	r.Get("/stats", httputil.MakeStatsHandler(log, func() interface{} {
		return models.NewStatsResponse(srv.Stats(), startedAt)
	}))
	return r
}

// Execute executes the command. Flag errors are printed by cobra and exit
// with ExitConfigError.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		os.Exit(ExitConfigError)
	}
}

const help = "Usage:\r\n" +
	"  {{.UseLine}}{{if .HasAvailableSubCommands}}{{end}} {{if gt (len .Aliases) 0}}\r\n\r\n" +
	"{{.NameAndAliases}}{{end}}{{if .HasAvailableSubCommands}}\r\n\r\n" +
	"Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand)}}\r\n  " +
	"{{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}\r\n\r\n" +
	"Flags:\r\n" +
	"{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}\r\n\r\n" +
	"Global Flags:\r\n" +
	"{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}\r\n\r\n"
