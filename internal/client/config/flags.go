package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/medportal/internal/flagx"
)

// parseFlags applies the command-line overrides:
//
//	-a string   API base URL
//	-t int      request timeout in seconds (0 disables it)
//	-p string   auth policy: fail-fast or send-anonymous
//	-s string   path of the local state database
//	-i int      online check interval in seconds
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-p", "-s", "-i"})

	fs := flag.NewFlagSet("medportal", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.AuthPolicy, "p", cfg.AuthPolicy, "auth policy for requests without a credential")
	fs.StringVar(&cfg.StatePath, "s", cfg.StatePath, "state database path")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
		}
	})

	return nil
}
