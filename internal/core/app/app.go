package app

import (
	"fmt"

	"graphqlpal/internal/core/config"
	"graphqlpal/internal/core/ports"
	"graphqlpal/internal/data/history"
	"graphqlpal/internal/engine/extractor"
	"graphqlpal/internal/engine/parser"
	"graphqlpal/internal/engine/resolver"
)

// App wires the extraction and usage engines to one configuration.
type App struct {
	Config *config.Config
	Parser *parser.Parser

	extractor ports.TemplateExtractor
	cache     *parser.CachingLoader
	history   ports.HistoryStore
	store     *history.Store
}

// New builds an App. When cfg.History.Path is set the usage history
// database is opened and must later be released through Close.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	p := parser.NewDefaultParser()
	a := &App{Config: cfg, Parser: p}

	var loader parser.ModuleLoader
	if cfg.Extract.CacheEnabled() {
		a.cache = parser.NewCachingLoader(p)
		loader = a.cache
	} else {
		loader = parser.NewFileLoader(p)
	}
	a.extractor = extractor.NewExtractor(p, resolver.NewResolver(loader))

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.store = store
		a.history = store
	}
	return a, nil
}

// SetHistoryStore replaces the history backend used by schema stats runs.
func (a *App) SetHistoryStore(store ports.HistoryStore) {
	a.history = store
}

func (a *App) HistoryStore() ports.HistoryStore {
	return a.history
}

// CacheStats reports module cache hits and misses; both are zero when the
// cache is disabled.
func (a *App) CacheStats() (hits, misses int) {
	if a.cache == nil {
		return 0, 0
	}
	return a.cache.Stats()
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	if a.cache != nil {
		a.cache.Close()
		a.cache = nil
	}
	if a.store != nil {
		err := a.store.Close()
		a.store = nil
		return err
	}
	return nil
}
