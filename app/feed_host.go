//go:build !tinygo

package app

import (
	"context"
	"errors"

	"inkdash/dash/client/logger"
	"inkdash/dash/services/mqttfeed"
	"inkdash/dash/store"
	"inkdash/internal/config"
)

// feedTasks subscribes to an MQTT broker of readings when one is set.
func feedTasks(cfg config.Config, st *store.Store, log *logger.Logger) []task {
	if cfg.MQTT.Broker == "" {
		return nil
	}
	feed := mqttfeed.New(mqttfeed.Config{
		Broker:   cfg.MQTT.Broker,
		Topic:    cfg.MQTT.Topic,
		ClientID: cfg.MQTT.ClientID,
	}, st, log.With("mqtt"))
	return []task{{name: "mqtt", run: func(ctx context.Context) {
		if err := feed.Run(ctx); err != nil && !errors.Is(err, mqttfeed.ErrNoBroker) {
			log.With("mqtt").Errorf("%v", err)
		}
	}}}
}
