package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/statusdeck/statusdeck/internal/cli"
)

func main() {
	addr := flag.String("addr", os.Getenv("STATUSDECK_ADDR"), "Listen address (default 127.0.0.1:8630)")
	dataDir := flag.String("data", "", "Data directory override (defaults to config)")
	flag.Parse()

	opts := cli.DaemonOptions{
		Addr:    *addr,
		DataDir: *dataDir,
	}

	if err := cli.ServeDaemon(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
