package bot

import (
	"context"
	"sync/atomic"
	"time"

	coreconfig "citybot/core/config"
	"citybot/core/logger"
	tg "citybot/core/telegram"
	"citybot/core/telegram/commands"
	"citybot/core/telegram/router"
	tgsender "citybot/core/telegram/sender"
	"citybot/core/telegram/state"
	"log/slog"
)

// App wires the request flow onto the Telegram runtime: commands, the service
// callback, FSM handlers, and the middleware chain.
type App struct {
	cfg       *coreconfig.Config
	sessions  state.Manager
	flow      *Flow
	registry  *tg.Registry
	startedAt time.Time

	disp atomic.Pointer[tgsender.Dispatcher]
}

// New assembles the application on top of the given session store.
func New(cfg *coreconfig.Config, sessions state.Manager) *App {
	a := &App{
		cfg:       cfg,
		sessions:  sessions,
		flow:      NewFlow(sessions),
		registry:  tg.NewRegistry(),
		startedAt: time.Now(),
	}
	a.register()
	return a
}

// Registry exposes the command/callback registry, mainly for tests.
func (a *App) Registry() *tg.Registry { return a.registry }

func (a *App) dispatcher() *tgsender.Dispatcher { return a.disp.Load() }

func (a *App) register() {
	a.registry.RegisterCommand("/start", commands.Command{
		Handler:     a.onStart,
		Description: "Request a service",
	})
	a.registry.RegisterCommand("/cancel", commands.Command{
		Handler:     a.onCancel,
		Description: "Cancel the current request",
		Aliases:     []string{"abort"},
	})
	a.registry.RegisterCommand("/help", commands.Command{
		Handler:     a.onHelp,
		Description: "How the bot works",
	})
	a.registry.RegisterCommand("/stats", commands.Command{
		Handler:     a.onStats,
		Description: "Runtime counters",
		AdminOnly:   true,
		Hidden:      true,
	})

	if err := a.registry.RegisterCallback(serviceCallbackKey, a.onServiceSelected); err != nil {
		logger.Error(context.Background(), "tg.wire", "register.callback.failed",
			slog.String("key", serviceCallbackKey),
			slog.String("err", err.Error()),
		)
	}

	a.registry.SetTextFallback(a.onIdleText)

	state.RegisterHandler(StateAwaitingService, a.onAwaitingService)
	state.RegisterHandler(StateAwaitingLocation, a.onAwaitingLocation)
}

// RunOptions builds the runtime options consumed by tg.RunTelegram.
func (a *App) RunOptions() tg.RunOptions {
	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a.sessions, a.registry, router.TextOptions{})...)

	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			a.disp.Store(rt.Dispatcher)
			logger.Info(ctx, "app", "ready",
				slog.Duration("startup_duration", logger.RoundMS(time.Since(a.startedAt))),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			logger.Info(ctx, "app", "shutdown")
			return nil
		},
	}
}
