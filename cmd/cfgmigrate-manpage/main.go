package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/cfgmigrate/cmd/cfgmigrate"
	"github.com/arthur-debert/cfgmigrate/internal/version"
)

func main() {
	rootCmd := cfgmigrate.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "CFGMIGRATE",
		Section: "8",
		Source:  "cfgmigrate " + version.Version,
		Manual:  "cfgmigrate manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
