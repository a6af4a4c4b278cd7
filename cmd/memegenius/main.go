package main

import (
	"context"

	"github.com/ViBiOh/httputils/v4/pkg/alcotest"
	"github.com/ViBiOh/httputils/v4/pkg/httputils"
	"github.com/ViBiOh/httputils/v4/pkg/logger"
)

func main() {
	config := newConfig()
	alcotest.DoAndExit(config.alcotest)

	ctx := context.Background()

	clients, err := newClients(ctx, config)
	logger.FatalfOnErr(ctx, err, "clients")

	defer clients.Close(ctx)
	go clients.Start()

	services, err := newServices(ctx, config, clients)
	logger.FatalfOnErr(ctx, err, "services")

	port := newPort(services)

	go services.server.Start(clients.health.EndCtx(), httputils.Handler(port, clients.health, clients.telemetry.Middleware("http"), services.owasp.Middleware, services.cors.Middleware))

	clients.health.WaitForTermination(services.server.Done())

	<-services.server.Done()

	services.workspace.Wait()
}
