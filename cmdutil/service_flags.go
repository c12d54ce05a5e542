// Package cmdutil holds what the date server commands share: service flags
// and logger construction.
package cmdutil

import (
	"fmt"
	"log"
	"log/syslog"

	logrussyslog "github.com/sirupsen/logrus/hooks/syslog"
	"github.com/skycoin/skycoin/src/util/logging"
	"github.com/spf13/cobra"

	"github.com/skycoin/dateserver/discord"
)

// ServiceFlags are the flags every date server command accepts.
type ServiceFlags struct {
	MetricsAddr    string
	SyslogNet      string
	SyslogAddr     string
	SyslogLvl      SyslogLvl
	LogLvl         string
	Tag            string
	DiscordWebhook string
	ProxyProtocol  bool
}

// Init registers the flags on rootCmd.
func (sf *ServiceFlags) Init(rootCmd *cobra.Command, defaultTag string) {
	rootCmd.Flags().StringVarP(&sf.MetricsAddr,
		"metrics", "m", "", "address to serve metrics and stats API from")
	rootCmd.Flags().StringVar(&sf.SyslogNet,
		"syslog-net", "udp", "network in which to dial to syslog server")
	rootCmd.Flags().StringVar(&sf.SyslogAddr,
		"syslog", "", "syslog server address. E.g. localhost:514")
	rootCmd.Flags().Var(&sf.SyslogLvl,
		"syslog-lvl", "syslog priority, by name (e.g. INFO) or number")
	rootCmd.Flags().StringVarP(&sf.LogLvl,
		"log-level", "l", "info", "level of logging (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.Flags().StringVar(&sf.Tag,
		"tag", defaultTag, "logging tag")
	rootCmd.Flags().StringVar(&sf.DiscordWebhook,
		"discord-webhook", "", "discord webhook URL to report errors to")
	rootCmd.Flags().BoolVar(&sf.ProxyProtocol,
		"proxy-protocol", false, "expect a PROXY protocol header on every connection")
}

// Logger returns the tagged logger, with the level and hooks configured by
// the flags. Invalid flags are fatal.
func (sf *ServiceFlags) Logger() *logging.Logger {
	if err := sf.setupLogging(); err != nil {
		log.Fatal(err)
	}
	return logging.MustGetLogger(sf.Tag)
}

func (sf *ServiceFlags) setupLogging() error {
	lvl, err := logging.LevelFromString(sf.LogLvl)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	logging.SetLevel(lvl)

	if sf.SyslogAddr != "" {
		pri := syslog.LOG_INFO
		if sf.SyslogLvl != "" {
			pri = sf.SyslogLvl.Priority()
		}
		hook, err := logrussyslog.NewSyslogHook(sf.SyslogNet, sf.SyslogAddr, pri, sf.Tag)
		if err != nil {
			return fmt.Errorf("unable to connect to syslog daemon on %v: %w", sf.SyslogAddr, err)
		}
		logging.AddHook(hook)
	}

	if sf.DiscordWebhook != "" {
		logging.AddHook(discord.NewHook(sf.Tag, sf.DiscordWebhook, discord.WithLimit(discord.DefaultLimit)))
	}

	return nil
}
