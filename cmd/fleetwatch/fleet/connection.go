// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/fleetwatch/cmd/fleetwatch/cli"
	"github.com/bureau-foundation/fleetwatch/lib/codec"
	"github.com/bureau-foundation/fleetwatch/lib/collectorclient"
)

const (
	serverEnvVar   = "FLEETWATCH_SERVER"
	tokenEnvVar    = "FLEETWATCH_TOKEN"
	defaultServer  = "http://localhost:8000"
	defaultTimeout = 10 * time.Second
)

// CollectorConnection holds the flags every fleet command shares.
type CollectorConnection struct {
	Server  string
	Token   string
	Timeout time.Duration
}

// AddFlags registers --server, --token, and --timeout. Defaults are
// read from the environment at registration time.
func (c *CollectorConnection) AddFlags(flagSet *pflag.FlagSet) {
	server := os.Getenv(serverEnvVar)
	if server == "" {
		server = defaultServer
	}
	flagSet.StringVar(&c.Server, "server", server, "collector base URL (env: "+serverEnvVar+")")
	flagSet.StringVar(&c.Token, "token", os.Getenv(tokenEnvVar), "collector bearer token (env: "+tokenEnvVar+")")
	flagSet.DurationVar(&c.Timeout, "timeout", defaultTimeout, "timeout for each collector request")
}

// connect creates a collector client from the connection flags. The
// CLI always speaks JSON; CBOR and compression are for producers.
func (c *CollectorConnection) connect() (*collectorclient.Client, error) {
	client, err := collectorclient.New(collectorclient.Config{
		BaseURL: c.Server,
		Token:   c.Token,
		Format:  codec.JSON,
	})
	if err != nil {
		return nil, cli.Validation("%w", err).
			WithHint("Pass --server as an absolute URL, e.g. http://localhost:8000.")
	}
	return client, nil
}

// callContext bounds one collector call by --timeout.
func (c *CollectorConnection) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(parent, timeout)
}

// classify wraps a collector client error in the matching ToolError
// category.
func (c *CollectorConnection) classify(err error, action string) error {
	var statusErr *collectorclient.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.Code == http.StatusUnauthorized || statusErr.Code == http.StatusForbidden:
			return cli.Forbidden("%s: %w", action, err).
				WithHint("Pass --token or set " + tokenEnvVar + " to the collector's bearer token.")
		case statusErr.Code == http.StatusNotFound:
			return cli.NotFound("%s: %w", action, err).
				WithHint("Check that --server points at a fleetwatch collector.")
		case statusErr.Code >= 500:
			return cli.Transient("%s: %w", action, err)
		case statusErr.Code >= 400:
			return cli.Validation("%s: %w", action, err)
		}
		return cli.Internal("%s: %w", action, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return cli.Transient("%s: %w", action, err).
			WithHint("The collector did not answer in time. Retry, or raise --timeout.")
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return cli.Transient("%s: %w", action, err).
			WithHint("Is the collector running at " + c.Server + "?")
	}
	return cli.Internal("%s: %w", action, err)
}
