// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

/*
Package supervisor runs the server's long-lived services under a suture v4
supervisor tree.

# Overview

The tree has two layers so that a failing snapshot watcher never takes
the HTTP listener down with it:

	RootSupervisor ("mealrec")
	├── DataSupervisor ("data-layer")
	│   └── ReloadService (if RELOAD_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Supervisor events
(start, stop, failure, backoff) are logged through sutureslog, which the
server points at the zerolog-backed slog.Logger from internal/logging.

# Usage

	logger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	if cfg.Data.ReloadEnabled {
	    tree.AddDataService(reloader)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped with error")
	}

# Shutdown

Cancelling the context passed to Serve stops every service. Services that
do not return within TreeConfig.ShutdownTimeout are listed by
UnstoppedServiceReport.
*/
package supervisor
