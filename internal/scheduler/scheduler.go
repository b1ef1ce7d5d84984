package scheduler

import (
	"github.com/mdouchement/logger"
	"github.com/mdouchement/uploadnotifier/internal/notifier"
	"github.com/robfig/cron/v3"
)

// A Controller is an Iversion Of Control pattern used to init the scheduler package.
type Controller struct {
	Logger        logger.Logger
	Stats         *notifier.Stats
	Specification string
}

// Start lauches the scheduler asynchronously.
func Start(c Controller) {
	cron := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	log := c.Logger.WithPrefix("[scheduler]")

	_, err := cron.AddFunc(c.Specification, func() {
		log.Infof("Delivery stats: %s", c.Stats)
	})
	if err != nil {
		panic(err)
	}
	log.Info("Stats report task registred")

	cron.Start()
	log.Info("Scheduler is running")
}
