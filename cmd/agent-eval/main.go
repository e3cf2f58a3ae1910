package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tb0hdan/agent-eval/pkg/config"
)

const (
	ServerName      = "agent-eval"
	ServiceName     = "Cooking Agent Evaluation Toolkit"
	ShutdownTimeout = 10 * time.Second
)

//go:embed VERSION
var Version string

func version() string {
	return strings.TrimSpace(Version)
}

func main() {
	os.Exit(run())
}

func run() int {
	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(signalCtx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	a.close(shutdownCtx)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var missing *config.MissingError
		if errors.As(err, &missing) && missing.Hint != "" {
			fmt.Fprintf(os.Stderr, "   %s\n", missing.Hint)
		}
		return 1
	}
	return 0
}
