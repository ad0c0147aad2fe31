package main

import (
	"github.com/kbukum/typedflow/bootstrap"
	"github.com/kbukum/typedflow/logger"
	"github.com/kbukum/typedflow/store"
	"github.com/kbukum/typedflow/store/bolt"
	"github.com/kbukum/typedflow/store/redis"
)

// Namespaces of the two typed stores inside one backend.
const (
	textsNamespace   = "texts"
	numbersNamespace = "numbers"
)

// stores are the typed stores served by the API.
type stores struct {
	texts   store.Store[string]
	numbers store.Counter[int64]
}

// registerBackend adds the configured store backend to app and returns a
// function that opens the typed stores once the backend has started.
func registerBackend(app *bootstrap.App[*AppConfig]) (func() (stores, error), error) {
	cfg := app.Cfg.Store
	app.Logger.Info("Store backend selected", map[string]interface{}{logger.FieldBackend: cfg.Backend})

	switch cfg.Backend {
	case backendBolt:
		comp := bolt.NewComponent(cfg.Path, bolt.Options{Bucket: cfg.Bucket, Timeout: cfg.Timeout}, app.Logger)
		if err := app.RegisterComponent(comp); err != nil {
			return nil, err
		}
		return func() (stores, error) {
			texts, err := bolt.NewStore[string](comp.DB(), cfg.Bucket+"."+textsNamespace)
			if err != nil {
				return stores{}, err
			}
			numbers, err := bolt.NewNumericStore[int64](comp.DB(), cfg.Bucket+"."+numbersNamespace)
			if err != nil {
				return stores{}, err
			}
			return stores{texts: texts, numbers: numbers}, nil
		}, nil

	case backendRedis:
		comp := redis.NewComponent(cfg.Redis, app.Logger)
		if err := app.RegisterComponent(comp); err != nil {
			return nil, err
		}
		return func() (stores, error) {
			return stores{
				texts:   redis.NewStore[string](comp.Client(), textsNamespace),
				numbers: redis.NewNumericStore[int64](comp.Client(), numbersNamespace),
			}, nil
		}, nil

	default:
		return func() (stores, error) {
			return stores{texts: store.New[string](), numbers: store.NewNumeric[int64]()}, nil
		}, nil
	}
}
