package main

import (
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/AIOpsCrew/ssl-monitor/internal/config"
	mcptools "github.com/AIOpsCrew/ssl-monitor/internal/mcp"
	"github.com/AIOpsCrew/ssl-monitor/internal/monitor"
	"github.com/AIOpsCrew/ssl-monitor/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logrus.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	// The assistant gets the query surface only: no publisher, so its check
	// tools can never trigger alerts.
	checker := monitor.NewChecker(st, nil, cfg.ExpiringThreshold)
	checker.Concurrency = cfg.CheckConcurrency

	s := server.NewMCPServer(
		"ssl-monitor",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	mcptools.RegisterTools(s, checker)

	if err := server.ServeStdio(s); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
