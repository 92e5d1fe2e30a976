package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mend/tickbridge/internal/app"
	"github.com/mend/tickbridge/internal/cli"
	"github.com/mend/tickbridge/internal/config"
	"github.com/mend/tickbridge/internal/logger"
)

func main() {
	// Load .env if present (optional, for TICKBRIDGE_DB_KEY etc.)
	_ = godotenv.Load()

	// If the user asked for help, avoid initializing the full app (which may prompt)
	skipInit := false
	for _, a := range os.Args[1:] {
		if a == "-h" || a == "--help" || a == "help" {
			skipInit = true
			break
		}
	}

	if !skipInit {
		cfg, err := config.LoadDefault()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		if err := logger.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
			fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		a, err := app.NewWithConfig(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize app: %v\n", err)
			os.Exit(1)
		}
		defer a.Close()
		cli.SetApp(a)
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
