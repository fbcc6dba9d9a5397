package repository

import (
	"fmt"

	"pantry-chef-api/internal/config"
)

// Open connects to the backend selected by cfg.Type.
func Open(cfg *config.StoreConfig) (Store, error) {
	switch cfg.Type {
	case "sqlite":
		return wrapStore(NewSQLiteStore(cfg.Path))
	case "postgres", "postgresql":
		return wrapStore(NewPostgresStore(cfg.PostgresDSN()))
	case "mysql":
		return wrapStore(NewMySQLStore(cfg.MySQLDSN()))
	case "mongodb", "mongo":
		store, err := NewMongoStore(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store type %q", cfg.Type)
	}
}

// wrapStore avoids returning a typed nil inside the Store interface.
func wrapStore(store *SQLStore, err error) (Store, error) {
	if err != nil {
		return nil, err
	}
	return store, nil
}
