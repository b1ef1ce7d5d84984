package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"runtime"

	"github.com/mdouchement/logger"
	"github.com/mdouchement/uploadnotifier/internal/config"
	"github.com/mdouchement/uploadnotifier/internal/notifier"
	"github.com/mdouchement/uploadnotifier/internal/scheduler"
	"github.com/mdouchement/uploadnotifier/internal/storage"
	"github.com/mdouchement/uploadnotifier/internal/webserver"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	binding       string
	port          string
	verbose       bool
	statsInterval string
)

func main() {
	c := &cobra.Command{
		Use:     "uploadnotifier",
		Short:   "Register uploaded objects into the data catalog",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    cobra.ExactArgs(0),
	}
	c.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Version for uploadnotifier",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(c.Version)
		},
	})

	serverCmd.Flags().StringVarP(&binding, "binding", "b", "0.0.0.0", "Server's binding")
	serverCmd.Flags().StringVarP(&port, "port", "p", "5000", "Server's port")
	serverCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log fetched metadata and outgoing payloads")
	serverCmd.Flags().StringVar(&statsInterval, "stats-interval", "@every 1m", "Stats report cron specification")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start server",
	Args:  cobra.ExactArgs(0),
	RunE: func(c *cobra.Command, _ []string) error {
		log := logrus.New()
		log.SetFormatter(&logger.LogrusTextFormatter{
			DisableColors:   false,
			ForceColors:     true,
			ForceFormatting: true,
			PrefixRE:        regexp.MustCompile(`^(\[.*?\])\s`),
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}

		l := logger.WrapLogrus(log)

		// Deliveries reload the configuration themselves, so a hole in the
		// environment only warns at boot.
		if _, err := config.Load(); err != nil {
			l.Warnf("%s", err)
		}

		//

		stats := &notifier.Stats{}

		scheduler.Start(scheduler.Controller{
			Logger:        l,
			Stats:         stats,
			Specification: statsInterval,
		})

		//

		ctrl := webserver.Controller{
			Version: c.Parent().Version,
			Logger:  l,
			Stats:   stats,
			//
			LoadConfig:  config.Load,
			OpenStorage: storage.OpenSwift,
			//
			WebhookToken: os.Getenv(config.EnvWebhookToken),
			Verbose:      verbose,
		}

		engine := webserver.EchoEngine(ctrl)
		webserver.PrintRoutes(engine)

		listen := fmt.Sprintf("%s:%s", binding, port)
		log.Printf("Server listening on %s", listen)
		return errors.Wrap(
			engine.Start(listen),
			"could not run server",
		)
	},
}
