package parser

import (
	"os"
	"sync"

	"graphqlpal/internal/core/errors"
	"graphqlpal/internal/shared/observability"

	"github.com/cespare/xxhash/v2"
)

// ModuleLoader loads a module by canonical path. Callers hand every module
// back through Release once they no longer hold nodes from it.
type ModuleLoader interface {
	Load(path string) (*Module, error)
	Release(m *Module)
}

// FileLoader reparses the file on every Load.
type FileLoader struct {
	parser *Parser
}

func NewFileLoader(p *Parser) *FileLoader {
	return &FileLoader{parser: p}
}

func (l *FileLoader) Load(path string) (*Module, error) {
	return l.parser.ParseFile(path)
}

func (l *FileLoader) Release(m *Module) {
	m.Close()
}

type cacheEntry struct {
	module *Module
	sum    uint64
}

// CachingLoader memoizes modules by path. An entry is reused while the
// file content hashes to the same value; superseded modules are kept alive
// until Close because another goroutine may still be reading them.
type CachingLoader struct {
	parser  *Parser
	mu      sync.Mutex
	entries map[string]cacheEntry
	retired []*Module
	hits    int
	misses  int
}

func NewCachingLoader(p *Parser) *CachingLoader {
	return &CachingLoader{
		parser:  p,
		entries: make(map[string]cacheEntry),
	}
}

func (l *CachingLoader) Load(path string) (*Module, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIOError, "unable to read source file"), errors.CtxPath, path)
	}
	sum := xxhash.Sum64(content)

	l.mu.Lock()
	if entry, ok := l.entries[path]; ok && entry.sum == sum {
		l.hits++
		l.mu.Unlock()
		observability.ModuleCacheHitsTotal.Inc()
		return entry.module, nil
	}
	l.mu.Unlock()

	module, err := l.parser.Parse(path, content)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.misses++
	if entry, ok := l.entries[path]; ok {
		if entry.sum == sum {
			// Lost a race with another loader of the same content.
			module.Close()
			return entry.module, nil
		}
		l.retired = append(l.retired, entry.module)
	}
	l.entries[path] = cacheEntry{module: module, sum: sum}
	return module, nil
}

// Release is a no-op: cached modules live until Close.
func (l *CachingLoader) Release(*Module) {}

// Stats returns cache hits and misses since creation.
func (l *CachingLoader) Stats() (hits, misses int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hits, l.misses
}

func (l *CachingLoader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for path, entry := range l.entries {
		entry.module.Close()
		delete(l.entries, path)
	}
	for _, m := range l.retired {
		m.Close()
	}
	l.retired = nil
}
