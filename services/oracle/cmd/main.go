package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/vsc-eco/vsc-btc-vault/services/oracle"
)

func main() {
	var (
		configPath = flag.String("config", "oracle-config.json", "Oracle configuration file")
		interval   = flag.Duration("interval", 10*time.Minute, "Config reload interval")
		logLevel   = flag.String("log-level", "info", "Log level")
	)
	flag.Parse()

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.WithField("err", err).Fatal("invalid log level")
	}
	log.SetLevel(level)

	// Invalid configuration aborts startup
	svc, err := oracle.NewServiceFromFile(*configPath)
	if err != nil {
		log.WithField("err", err).Fatal("failed to load oracle config")
	}

	for _, pair := range svc.Pairs() {
		fields := log.Fields{"pair": pair.String(), "feeds": svc.Feeds(pair)}
		if v, ok := svc.Override(pair); ok {
			fields["override"] = v
		}
		log.WithFields(fields).Info("price configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := svc.Reload(*configPath); err != nil {
				log.WithField("err", err).Error("config reload failed")
			}
		case <-ctx.Done():
			log.Info("shutting down oracle service")
			return
		}
	}
}
