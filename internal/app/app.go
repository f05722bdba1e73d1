// Package app wires the bot together: config, logging, transport,
// registry, scheduler and command dispatch, under one supervisor.
package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"standupbot/internal/config"
	rtsup "standupbot/internal/runtime/supervisor"
	"standupbot/internal/standup"
	"standupbot/internal/storage"
	kit "standupbot/internal/transport"
	telegram "standupbot/internal/transport/telegram/adapter"
	"standupbot/internal/transport/telegram/router"
	logx "standupbot/pkg/logx"
)

type App struct {
	cfgPath string

	cfgm *config.Manager
	sup  *rtsup.Supervisor

	log   logx.Logger
	logs  *logx.Service
	store storage.Store

	adapter kit.Adapter

	reg   *standup.Registry
	bc    *standup.Broadcaster
	sched *standup.Scheduler
	cmdm  *router.CommandManager

	updates chan kit.Update
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	bootLog := logx.NewConsole("INFO").With(logx.String("comp", "telegram"))

	pollTimeout, err := config.ParseDurationOrDefault("telegram.poll_timeout", cfg.Telegram.PollTimeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	ad, err := telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: pollTimeout,
	}, bootLog)
	if err != nil {
		return nil, err
	}

	// logx.New() calls Apply() immediately. Bootstrap with Telegram logging
	// disabled, set the target, then Apply() the final config, so a
	// configured-but-untargeted sink doesn't warn on startup.
	baseLogCfg := mapLogConfig(cfg)
	baseLogCfg.Telegram.Enabled = false
	logSvc, log := logx.New(baseLogCfg, ad)
	log = log.With(logx.String("comp", "app"))

	if chatID, ok := parseGroupLog(cfg.Telegram.GroupLog); ok {
		logSvc.SetTelegramTarget(chatID, cfg.Logging.Telegram.ThreadID)
	}
	logSvc.Apply(mapLogConfig(cfg))

	// Storage (optional)
	var store storage.Store
	sc, err := mapStorageConfig(cfg)
	if err != nil {
		return nil, err
	}
	st, err := storage.Open(sc, log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, err
	}
	if st != nil {
		store = st
		log.Info("storage enabled", logx.String("driver", sc.Driver))
	}

	reg := standup.NewRegistry()

	bcCfg, err := mapBroadcastConfig(cfg)
	if err != nil {
		return nil, err
	}
	bc := standup.NewBroadcaster(ad, store, bcCfg, log.With(logx.String("comp", "broadcast")))

	sched, err := standup.NewScheduler(reg, bc, mapTriggerConfig(cfg), log.With(logx.String("comp", "scheduler")))
	if err != nil {
		return nil, err
	}

	cmdm := router.NewCommandManager(log.With(logx.String("comp", "commands")), ad, cfg.Telegram.OwnerUserIDs)
	cmdm.SetRegistry(standup.Commands(reg, sched, store))

	return &App{
		cfgPath: cfgPath,
		cfgm:    cfgm,
		log:     log,
		logs:    logSvc,
		store:   store,
		adapter: ad,
		reg:     reg,
		bc:      bc,
		sched:   sched,
		cmdm:    cmdm,
		updates: make(chan kit.Update, 256),
	}, nil
}

// Done is closed when the app supervisor context is canceled (fatal error or Stop()).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor (if any).
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Start(ctx context.Context) error {
	a.sup = rtsup.New(ctx, rtsup.WithLogger(a.log), rtsup.WithCancelOnError(true))

	// transactional config reload: validate before commit/publish
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(c context.Context, cfg *config.Config) error {
		if strings.TrimSpace(cfg.Telegram.Token) == "" {
			return fmt.Errorf("telegram.token is required")
		}
		if _, err := config.ParseDurationField("telegram.poll_timeout", cfg.Telegram.PollTimeout); err != nil {
			return err
		}
		if _, err := mapBroadcastConfig(cfg); err != nil {
			return err
		}
		if _, err := standup.NewScheduler(standup.NewRegistry(), nil, mapTriggerConfig(cfg), logx.Nop()); err != nil {
			return fmt.Errorf("standup: %w", err)
		}
		if _, err := mapStorageConfig(cfg); err != nil {
			return err
		}
		return nil
	})

	if err := a.adapter.Start(a.sup.Context(), a.updates); err != nil {
		return err
	}

	a.sup.Go("standup.scheduler", func(c context.Context) error {
		return a.sched.Run(c)
	})

	a.sup.Go("commands.dispatch", func(c context.Context) error {
		return a.cmdm.DispatchLoop(c, a.updates)
	})

	// hot reload config fan-out
	sub := a.cfgm.Subscribe(8)
	a.sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		for {
			select {
			case <-c.Done():
				return
			case newCfg, ok := <-sub:
				if !ok {
					return
				}
				// Coalesce bursts: keep only the latest config in the channel.
				for {
					select {
					case newer := <-sub:
						if newer != nil {
							newCfg = newer
						}
					default:
						goto APPLY
					}
				}
			APPLY:
				a.applyConfig(newCfg)
			}
		}
	})

	a.sup.Go("config.watch", func(c context.Context) error {
		return a.cfgm.Watch(c)
	})

	a.log.Info("app started")
	return nil
}

func (a *App) applyConfig(cfg *config.Config) {
	// update log target first (so Apply() doesn't warn when Telegram logging is enabled)
	if chatID, ok := parseGroupLog(cfg.Telegram.GroupLog); ok {
		a.logs.SetTelegramTarget(chatID, cfg.Logging.Telegram.ThreadID)
	} else {
		a.logs.SetTelegramTarget(0, 0)
	}
	a.logs.Apply(mapLogConfig(cfg))

	a.cmdm.SetOwners(cfg.Telegram.OwnerUserIDs)

	if bcCfg, err := mapBroadcastConfig(cfg); err != nil {
		a.log.Warn("invalid standup send config; keeping previous", logx.Err(err))
	} else {
		a.bc.Apply(bcCfg)
	}
	if err := a.sched.Apply(mapTriggerConfig(cfg)); err != nil {
		a.log.Warn("invalid standup trigger config; keeping previous", logx.Err(err))
	}

	// Storage cannot be swapped live; the open store keeps its handle.
	if sc, err := mapStorageConfig(cfg); err == nil {
		open := a.store != nil
		wants := strings.TrimSpace(sc.Driver) != "" && !strings.EqualFold(sc.Driver, "none")
		if open != wants {
			a.log.Warn("storage config changed; restart required for changes to take effect")
		}
	}

	a.log.Info("config reloaded")
}

func (a *App) Stop(ctx context.Context) error {
	if a.sup == nil {
		return nil
	}
	a.log.Info("stopping")

	// Cancel the run context first so background loops start unwinding.
	a.sup.Cancel()

	// Run each shutdown step with an upper bound so one component can't
	// stall the whole stop.
	step := func(name string, max time.Duration, fn func(context.Context) error) {
		stepCtx := ctx
		var cancel context.CancelFunc
		if max > 0 {
			if dl, ok := ctx.Deadline(); ok {
				if rem := time.Until(dl); rem > 0 && rem < max {
					max = rem
				}
			}
			stepCtx, cancel = context.WithTimeout(ctx, max)
			defer cancel()
		}

		done := make(chan error, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- fmt.Errorf("panic in stop step %s: %v", name, r)
				}
			}()
			done <- fn(stepCtx)
		}()

		select {
		case err := <-done:
			if err != nil {
				a.log.Warn("stop step error", logx.String("name", name), logx.Err(err))
			}
		case <-stepCtx.Done():
			a.log.Warn("stop step deadline reached (continuing)", logx.String("name", name))
		}
	}

	step("adapter", 2*time.Second, func(c context.Context) error { return a.adapter.Stop(c) })
	step("storage", 1*time.Second, func(c context.Context) error {
		if a.store != nil {
			return a.store.Close()
		}
		return nil
	})
	step("supervisor", 2*time.Second, func(c context.Context) error { return a.sup.Wait(c) })

	a.log.Info("stopped")
	if a.logs != nil {
		a.logs.Close()
	}
	return nil
}

func parseGroupLog(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	chatID, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return chatID, true
}

func mapLogConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
		Telegram: logx.TelegramConfig{
			Enabled:    cfg.Logging.Telegram.Enabled,
			ThreadID:   cfg.Logging.Telegram.ThreadID,
			MinLevel:   cfg.Logging.Telegram.MinLevel,
			RatePerSec: cfg.Logging.Telegram.RatePerSec,
		},
	}
}

func mapTriggerConfig(cfg *config.Config) standup.TriggerConfig {
	return standup.TriggerConfig{
		Time:     cfg.Standup.Time,
		Timezone: cfg.Standup.Timezone,
		Days:     cfg.Standup.Days,
		Holidays: cfg.Standup.Holidays,
	}
}

func mapBroadcastConfig(cfg *config.Config) (standup.BroadcastConfig, error) {
	sendTimeout, err := config.ParseDurationOrDefault("standup.send_timeout", cfg.Standup.SendTimeout, 10*time.Second)
	if err != nil {
		return standup.BroadcastConfig{}, err
	}
	if cfg.Standup.RatePerSec < 0 {
		return standup.BroadcastConfig{}, fmt.Errorf("standup.rate_per_sec must be >= 0")
	}
	return standup.BroadcastConfig{
		Header:      cfg.Standup.Header,
		SendTimeout: sendTimeout,
		RatePerSec:  float64(cfg.Standup.RatePerSec),
	}, nil
}

func mapStorageConfig(cfg *config.Config) (storage.Config, error) {
	if cfg.Storage == nil {
		return storage.Config{}, nil
	}
	busy, err := config.ParseDurationOrDefault("storage.busy_timeout", cfg.Storage.BusyTimeout, 0)
	if err != nil {
		return storage.Config{}, err
	}
	return storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busy,
	}, nil
}
