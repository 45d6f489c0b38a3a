// Package shutdown runs named cleanup hooks when the process is asked to
// stop, either by SIGINT/SIGTERM or by a call to Trigger.
//
// Usage:
//
//	h := shutdown.NewHandler(10*time.Second, log)
//	h.OnShutdown("http", srv.Shutdown)
//	h.OnShutdown("index", func(context.Context) error { return kv.Close() })
//	err := h.Wait(ctx)
//
// Hooks run in reverse registration order under one context bounded by
// the handler's timeout. A failing hook is logged and the rest still run;
// Wait returns their errors joined.
package shutdown
