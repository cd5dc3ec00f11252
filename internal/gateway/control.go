package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sniper-telemetry/internal/notification"
)

// controlResponse is the acknowledgment body for control endpoints.
type controlResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// controlHandler returns the handler for one control action. The handler
// only acknowledges: the bot executes the action after picking the command
// up from the control channel. The publish is fire-and-forget so a dead
// Redis never turns a dashboard button into a 500.
func (g *Gateway) controlHandler(action, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			setCORS(w)
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != http.MethodPost {
			setCORS(w)
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
			return
		}

		defer g.observe("control_" + action)()
		g.met.ControlTotal.WithLabelValues(action).Inc()

		g.publishControl(r.Context(), action)

		if action == "sell-all" {
			// Alert the operator even though the bot does the selling.
			alertCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := g.notifier.Send(alertCtx, notification.Alert{
				Level:   notification.AlertCritical,
				Title:   "Emergency sell requested",
				Message: "Dashboard requested liquidation of all positions",
			}); err != nil {
				g.log.Error("alert delivery failed", slog.String("error", err.Error()))
			}
		}

		writeJSON(w, http.StatusOK, controlResponse{Status: "ok", Message: message})
	}
}

func (g *Gateway) publishControl(ctx context.Context, action string) {
	if g.ctrl == nil {
		return
	}
	if err := g.ctrl.Publish(ctx, action); err != nil {
		g.log.Error("control publish failed",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
		return
	}
	g.log.Info("control command published",
		slog.String("action", action),
		slog.String("channel", g.cfg.ControlChannel),
	)
}
