package handlers

import (
	"github.com/sirupsen/logrus"

	"slidestack/config"
)

var log = logrus.NewEntry(logrus.StandardLogger())
var cfg = config.Default()

func Init(logger *logrus.Logger, c *config.Config) error {
	log = logger.WithFields(logrus.Fields{
		"component": "handlers",
	})
	if c != nil {
		cfg = c
	}
	return nil
}

func Fini() {}
