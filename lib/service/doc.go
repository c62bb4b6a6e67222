// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the scaffolding shared by the fleetwatch
// daemons: a TCP HTTP server with graceful shutdown, the structured
// logger every daemon installs at startup, and request logging.
//
// Daemons compose these pieces in their own main() rather than
// inheriting a framework:
//
//	logger, err := service.NewLogger(service.LoggerOptions{Level: "info"})
//	server := service.NewHTTPServer(service.HTTPServerConfig{
//	    Address: ":8000",
//	    Handler: service.LogRequests(logger, handler),
//	    Logger:  logger,
//	})
//	return server.Serve(ctx)
package service
