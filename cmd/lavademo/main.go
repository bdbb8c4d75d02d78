package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lava/internal/app"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "config file (.toml, .yaml or .yml); defaults when empty")
	scenePath := flag.String("scene", "demo.yaml", "scene file, relative to the scenes path")
	flag.Parse()

	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			_ = os.Chdir(execDir)
		}
	}

	a, cleanup, err := app.InitializeApplication(app.ConfigPath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "lavademo: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	a.Init()
	if _, err := a.LoadScene(*scenePath); err != nil {
		a.Log.Fatal("scene", zap.Error(err))
	}
	if err := a.Run(); err != nil {
		a.Log.Fatal("run", zap.Error(err))
	}
}
