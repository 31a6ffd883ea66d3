package main

import (
	"flag"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/mExOms/convroute/internal/api"
	"github.com/mExOms/convroute/internal/config"
	"github.com/mExOms/convroute/internal/events"
	"github.com/mExOms/convroute/pkg/searchservice"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	configPath := flag.String("config", "configs/planner.yaml", "path to the planner config file")
	enableEvents := flag.Bool("publish-events", false, "publish search outcomes to NATS")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	var publisher *events.Publisher
	if *enableEvents {
		publisher, err = events.NewPublisher(cfg.Server.NATSURL, cfg.Server.OutcomeTopic)
		if err != nil {
			logger.Fatalf("failed to connect to NATS: %v", err)
		}
		defer publisher.Close()
	}

	server := api.NewServer(searchservice.NewService(), publisher)

	logger.WithField("addr", cfg.Server.ListenAddr).Info("starting apiserver")
	if err := http.ListenAndServe(cfg.Server.ListenAddr, server.Router()); err != nil {
		logger.Fatalf("apiserver exited: %v", err)
	}
}
