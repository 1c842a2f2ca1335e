package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dailyops/opsreport/internal/reportctl/cli"
	"github.com/dailyops/opsreport/pkg/slogx"
)

func main() {
	cfg := cli.LoadConfig()

	logger := slogx.New(slogx.Config{
		Service: "reportctl",
		Level:   cfg.LogLevel,
		Format:  "text",
	})

	app, err := cli.NewApp(cfg, logger, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "reportctl:", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "reportctl:", err)
		os.Exit(1)
	}
}
