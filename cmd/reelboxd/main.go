package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vmunix/reelbox/internal/config"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file (default: discovered)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	printConfig := flag.Bool("print-config", false, "Print the resolved configuration and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("reelboxd %s\n", version)
		os.Exit(0)
	}

	path := *configPath
	if path == "" {
		var err error
		path, err = config.Discover()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	if *printConfig {
		cfg, err := config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if err := cfg.Encode(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runServer(path); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
