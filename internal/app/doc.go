// Package app assembles the runtime shared by the gxkit commands:
// configuration, the slog logger, OpenTelemetry providers and metrics,
// the table store and loader, and the golden harness.
//
//	a, err := app.NewApplication("gxtable")
//	if err != nil { ... }
//	defer a.Shutdown(context.Background())
//	df, err := a.Loader.Load(ctx, "rockcode")
package app
