package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/matchday/internal/simulate"
)

// Default configuration constants.
const (
	defaultNumUsers   = 500
	defaultTopN       = 100
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numUsers = flag.Int("users", defaultNumUsers, "Number of synthetic users to create")
		topN     = flag.Int("top", defaultTopN, "Number of leaderboard rows to verify")
		workers  = flag.Int("workers", runtime.NumCPU()*2, "Number of concurrent submitters")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simulate.Config{
		BaseURL:  *baseURL,
		NumUsers: *numUsers,
		TopN:     *topN,
		Workers:  *workers,
		Timeout:  *timeout,
		Verbose:  *verbose,
	}

	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
