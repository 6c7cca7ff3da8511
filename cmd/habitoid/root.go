package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "habitoid",
	Short: "habitoid is a gamified habit tracking API server",
	Long:  "habitoid serves a REST API for habit tracking with streaks, points, levels, evolutions, badges, focus sessions, weekly insights, and a social feed.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
