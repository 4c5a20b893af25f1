// Package app wires the application together: configuration, logging,
// storage, the event bus, the global state store, and the notification
// center. Components are constructed explicitly with a defined
// Init/Shutdown lifecycle instead of package-level singletons.
package app

import (
	"errors"
	"time"

	"github.com/bitfun/appstate/internal/bus"
	"github.com/bitfun/appstate/internal/colors"
	"github.com/bitfun/appstate/internal/config"
	"github.com/bitfun/appstate/internal/global"
	"github.com/bitfun/appstate/internal/logging"
	"github.com/bitfun/appstate/internal/notify"
	"github.com/bitfun/appstate/internal/storage"
	"github.com/bitfun/appstate/internal/store"
)

// NotificationsKey is the storage key for the persisted notification state.
const NotificationsKey = "bitfun-notifications"

// App bundles the constructed application components.
type App struct {
	Logger        logging.Logger
	Backend       storage.Backend
	Bus           *bus.Bus
	Global        *store.Store[global.State]
	GlobalActions *global.Actions
	Context       *global.ContextStore
	Notifications *notify.Store
	Service       *notify.Service
}

// Init loads configuration and constructs every component.
func Init() (*App, error) {
	config.Load()
	colors.SetDebug(config.GetBool("debug", false))
	colors.SetQuiet(config.GetBool("quiet", false))

	if err := logging.InitGlobal(); err != nil {
		colors.Warning("failed to initialize logging: " + err.Error())
	}
	logger := logging.GetGlobal()

	backend, err := storage.NewFromConfig()
	if err != nil {
		return nil, err
	}

	eventBus := bus.New(
		bus.WithLogger(logger),
		bus.WithMaxListeners(config.GetInt("max_listeners", bus.DefaultMaxListeners)),
		bus.WithHistoryLimit(config.GetInt("event_history_limit", bus.DefaultHistoryLimit)),
	)

	globalStore := global.NewStore(backend, eventBus, logger)
	contextStore := global.NewContextStore(backend, logger)

	notifConfig := notify.Config{
		MaxActive:       config.GetInt("max_active_notifications", notify.DefaultMaxActive),
		MaxHistory:      config.GetInt("max_history", notify.DefaultMaxHistory),
		DefaultDuration: time.Duration(config.GetInt("default_duration_ms", 5000)) * time.Millisecond,
	}
	notifStore := notify.NewStore(notifConfig,
		store.WithLogger[notify.State](logger),
		store.WithBus[notify.State](eventBus),
		store.WithPersistence[notify.State](store.Persistence{
			Backend:   backend,
			Key:       NotificationsKey,
			Whitelist: []string{"history"},
		}),
	)

	return &App{
		Logger:        logger,
		Backend:       backend,
		Bus:           eventBus,
		Global:        globalStore,
		GlobalActions: global.NewActions(globalStore, eventBus),
		Context:       contextStore,
		Notifications: notifStore,
		Service:       notify.NewService(notifStore, logger),
	}, nil
}

// Shutdown tears components down in reverse construction order. All
// errors are collected and returned joined.
func (a *App) Shutdown() error {
	var errs []error
	if a.Context != nil {
		if err := a.Context.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.Notifications != nil {
		if err := a.Notifications.Close(); err != nil && !errors.Is(err, store.ErrStoreClosed) {
			errs = append(errs, err)
		}
	}
	if a.Global != nil {
		if err := a.Global.Close(); err != nil && !errors.Is(err, store.ErrStoreClosed) {
			errs = append(errs, err)
		}
	}
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil && !errors.Is(err, bus.ErrBusClosed) {
			errs = append(errs, err)
		}
	}
	if a.Backend != nil {
		if err := a.Backend.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := logging.ShutdownGlobal(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
