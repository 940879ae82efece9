// Command emild serves the typing automaton over HTTP: upload a rule
// pack, build automatons from it against display text, and step them
// by keystroke.
//
// Usage:
//
//	emild [flags]
//
// Flags:
//
//	-addr string
//	    Server address (default ":8080")
//	-automaton-ttl duration
//	    How long an idle automaton survives before eviction (default 30m)
//	-max-display-length int
//	    Longest display text a single build will tile (default 256)
//	-max-build-duration duration
//	    Longest a single automaton build may run before aborting (default 5s)
//
// The server exposes the following endpoints:
//
//	POST   /api/v1/rules                             - upload a rule pack
//	POST   /api/v1/rules/{ruleID}/automatons          - build an automaton
//	POST   /api/v1/automatons/{id}/input              - apply a keystroke
//	POST   /api/v1/automatons/{id}/test                - test a keystroke
//	POST   /api/v1/automatons/{id}/reset               - reset an automaton
//	GET    /api/v1/automatons/{id}/graphviz            - render as Graphviz DOT
//	GET    /health, /health/live, /health/ready        - health checks
//	GET    /metrics                                    - Prometheus metrics
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomoemon/emil/pkg/config"
	"github.com/tomoemon/emil/pkg/logging"
	"github.com/tomoemon/emil/pkg/server"
)

func main() {
	addr := flag.String("addr", ":8080", "server address")
	readTimeout := flag.Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 10*time.Second, "HTTP write timeout")
	automatonTTL := flag.Duration("automaton-ttl", 30*time.Minute, "idle automaton eviction TTL")
	maxDisplayLength := flag.Int("max-display-length", 256, "longest display text a single build will tile (0 = unlimited)")
	maxBuildDuration := flag.Duration("max-build-duration", 5*time.Second, "longest a single automaton build may run before aborting (0 = unlimited)")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	logger := logging.New(logging.Config{Level: *logLevel, Pretty: true})

	serverCfg := config.DefaultServerConfig()
	serverCfg.Address = *addr
	serverCfg.ReadTimeout = *readTimeout
	serverCfg.WriteTimeout = *writeTimeout
	serverCfg.AutomatonTTL = *automatonTTL

	ruleCfg := config.DefaultRuleConfig()

	runtimeCfg := config.DefaultRuntimeConfig()
	runtimeCfg.MaxDisplayStringLength = *maxDisplayLength
	runtimeCfg.MaxBuildDuration = *maxBuildDuration

	srv, err := server.New(serverCfg, ruleCfg, runtimeCfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create server: %v\n", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		fmt.Printf("emild listening on %s\n", *addr)
		fmt.Printf("health:  http://localhost%s/health\n", *addr)
		fmt.Printf("metrics: http://localhost%s/metrics\n", *addr)
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	case sig := <-sigChan:
		fmt.Printf("received signal: %v, shutting down\n", sig)
		ctx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("server stopped")
	}
}
