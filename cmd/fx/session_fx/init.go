package session_fx

import (
	"context"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"time"
	"tripplanner/internal/view"
	mem "tripplanner/pkg/memcache"
)

const sweepInterval = time.Minute

var Module = fx.Options(
	fx.Provide(providePlannerSessions),
	fx.Invoke(startJanitor),
)

func providePlannerSessions(logger *zap.Logger) mem.SessionStore[*view.PlannerView] {
	return mem.NewViewSessions(func(id string, v *view.PlannerView) {
		logger.Debug("closing planner view", zap.String("session_id", id))
		v.Close()
	})
}

// startJanitor evicts idle planner views so their in-flight fetches are
// cancelled.
func startJanitor(lc fx.Lifecycle, sessions mem.SessionStore[*view.PlannerView], logger *zap.Logger) {
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(sweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if n := sessions.Sweep(); n > 0 {
							logger.Info("evicted idle planner sessions", zap.Int("count", n))
						}
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
}
