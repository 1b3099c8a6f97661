package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"tomgalvin.uk/msxsprite/cmd"
)

func main() {
	db := flag.String("db", "", "sprite database, defaults to $MSXSPRITE_DB or "+defaultDSN)
	verbose := flag.Bool("v", false, "log every edit")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), cmd.Usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	s, err := NewStore(databaseDSN(*db), logger)
	if err != nil {
		slog.Error("Couldn't start", "err", err)
		os.Exit(1)
	}
	defer s.Close()

	editor := cmd.Editor{Store: s, Out: os.Stdout, Logger: logger}
	if err := editor.Run(flag.Args()); err != nil {
		if errors.Is(err, cmd.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			s.Close()
			os.Exit(2)
		}
		slog.Error("Command failed", "err", err)
		s.Close()
		os.Exit(1)
	}
}
