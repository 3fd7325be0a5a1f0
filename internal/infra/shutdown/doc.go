// Package shutdown coordinates graceful termination of tracker-server.
//
// Components register named hooks as they start. Wait blocks until SIGINT,
// SIGTERM, context cancellation or an explicit Trigger, then runs the hooks
// in reverse registration order under one deadline:
//
//	h := shutdown.NewHandler(30*time.Second, log)
//	h.OnShutdown("storage", store.Close)
//	h.OnShutdown("http", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
