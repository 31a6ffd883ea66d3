package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/mExOms/convroute/internal/api"
	"github.com/mExOms/convroute/internal/events"
	"github.com/mExOms/convroute/pkg/logging"
	"github.com/mExOms/convroute/pkg/searchservice"
)

func main() {
	logger := logging.New("planner_cli")

	requestPath := flag.String("request", "", "path to a JSON-encoded PlanRequestBody")
	flag.Parse()

	if *requestPath == "" {
		logger.Fatal("-request is required")
	}

	raw, err := os.ReadFile(*requestPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to read request file")
	}

	var body api.PlanRequestBody
	if err := json.Unmarshal(raw, &body); err != nil {
		logger.WithError(err).Fatal("failed to parse request file")
	}

	req, guardLimits, throwOnGuardLimit, err := api.ToSearchRequest(body)
	if err != nil {
		logger.WithError(err).Fatal("invalid request")
	}
	req.Config.SearchGuards = guardLimits
	req.Config.ThrowOnGuardLimit = throwOnGuardLimit

	outcome, err := searchservice.NewService().Search(req)
	if err != nil {
		logging.GuardReport(logger, outcome.GuardReport)
		logger.WithError(err).Fatal("search failed")
	}
	logging.GuardReport(logger, outcome.GuardReport)

	if outcome.Plan == nil {
		fmt.Println("no feasible execution plan found")
		os.Exit(1)
	}

	printed, err := json.MarshalIndent(events.ToOutcomeEvent(outcome), "", "  ")
	if err != nil {
		logger.WithError(err).Fatal("failed to render plan")
	}
	fmt.Println(string(printed))
}
