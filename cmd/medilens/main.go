package main

import (
	"fmt"
	"medilens/internal/di"
	"medilens/internal/structures"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	flags := &structures.CliFlags{}
	pflag.StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "path to the YAML config file")
	pflag.BoolVar(&flags.DebugMode, "debug", false, "mirror logs to the console")
	pflag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "medilens: %v\n", err)
		os.Exit(1)
	}
}
