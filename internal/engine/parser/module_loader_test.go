package parser

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"graphqlpal/internal/core/errors"
)

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFileLoader_ParsesEveryTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.js")
	writeSource(t, path, "export const A = gql`fragment A on T { a }`\n")

	l := NewFileLoader(NewDefaultParser())
	m1, err := l.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	m2, err := l.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if m1 == m2 {
		t.Error("FileLoader must not share modules")
	}
	l.Release(m1)
	l.Release(m2)
	if m1.Root() != nil {
		t.Error("Release must close the module")
	}
}

func TestCachingLoader_ReusesUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.js")
	writeSource(t, path, "export const A = gql`fragment A on T { a }`\n")

	l := NewCachingLoader(NewDefaultParser())
	defer l.Close()

	m1, err := l.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	m2, err := l.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if m1 != m2 {
		t.Error("expected cached module on unchanged content")
	}
	hits, misses := l.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("hits=%d misses=%d, want 1/1", hits, misses)
	}

	writeSource(t, path, "export const A = gql`fragment A on T { b }`\n")
	m3, err := l.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if m3 == m1 {
		t.Error("expected a fresh module after content change")
	}
	// The superseded module stays readable until Close.
	if m1.Root() == nil {
		t.Error("superseded module closed early")
	}
}

func TestCachingLoader_CloseReleasesAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.ts")
	writeSource(t, path, "export const A: string = 'a'\n")

	l := NewCachingLoader(NewDefaultParser())
	m, err := l.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	l.Release(m)
	if m.Root() == nil {
		t.Fatal("Release must not close cached modules")
	}
	l.Close()
	if m.Root() != nil {
		t.Error("Close must release cached modules")
	}
}

func TestCachingLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	l := NewCachingLoader(NewDefaultParser())
	defer l.Close()

	if _, err := l.Load(filepath.Join(dir, "missing.js")); !errors.IsCode(err, errors.CodeIOError) {
		t.Errorf("expected IO_ERROR, got %v", err)
	}

	broken := filepath.Join(dir, "broken.js")
	writeSource(t, broken, "export const = ;\n")
	if _, err := l.Load(broken); !errors.IsCode(err, errors.CodeParseError) {
		t.Errorf("expected PARSE_ERROR, got %v", err)
	}
}

func TestCachingLoader_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.js")
	writeSource(t, path, "export const A = gql`fragment A on T { a }`\n")

	l := NewCachingLoader(NewDefaultParser())
	defer l.Close()

	var wg sync.WaitGroup
	modules := make([]*Module, 8)
	for i := range modules {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := l.Load(path)
			if err != nil {
				t.Error(err)
				return
			}
			modules[i] = m
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(modules); i++ {
		if modules[i] != modules[0] {
			t.Fatalf("module %d differs from module 0", i)
		}
	}
}
