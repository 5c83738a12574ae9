package resolver

import (
	"os"
	"path/filepath"

	"graphqlpal/internal/core/errors"
	"graphqlpal/internal/engine/parser"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ImportBinding maps a name bound by an import statement to the module it
// was imported from.
type ImportBinding struct {
	Local    string
	Imported string
	Source   string
}

// Resolver looks up the literal value of constants imported by a module.
// Referenced modules are loaded on demand through the injected loader.
type Resolver struct {
	loader parser.ModuleLoader
}

func NewResolver(loader parser.ModuleLoader) *Resolver {
	return &Resolver{loader: loader}
}

// Bindings lists the named import specifiers of m in source order.
// Default and namespace imports are not bindings a template can resolve.
func Bindings(m *parser.Module) []ImportBinding {
	var out []ImportBinding
	for _, stmt := range parser.TopLevel(m, "import_statement") {
		source := parser.TrimQuoted(m.Text(stmt.ChildByFieldName("source")))
		clause := parser.ChildOfKind(stmt, "import_clause")
		named := parser.ChildOfKind(clause, "named_imports")
		if named == nil {
			continue
		}
		for i := uint(0); i < named.NamedChildCount(); i++ {
			spec := named.NamedChild(i)
			if spec == nil || spec.Kind() != "import_specifier" {
				continue
			}
			imported := parser.TrimQuoted(m.Text(spec.ChildByFieldName("name")))
			local := imported
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				local = m.Text(alias)
			}
			out = append(out, ImportBinding{Local: local, Imported: imported, Source: source})
		}
	}
	return out
}

// Resolve returns the first literal segment of the tagged template exported
// under name by the module that m imports name from.
func (r *Resolver) Resolve(name string, m *parser.Module) (string, error) {
	binding, ok := findBinding(name, m)
	if !ok {
		return "", errors.AddContext(errors.Newf(errors.CodeNotFound, "no import found for %s", name), errors.CtxSymbol, name)
	}

	path, err := resolvePath(binding.Source, m)
	if err != nil {
		err = errors.Wrap(err, errors.CodeIOError, "unable to resolve import for "+name)
		return "", errors.AddContext(err, errors.CtxSymbol, name)
	}

	target, err := r.loader.Load(path)
	if err != nil {
		return "", errors.AddContext(err, errors.CtxSymbol, name)
	}
	defer r.loader.Release(target)

	if value, ok := exportedTemplateValue(name, target); ok {
		return value, nil
	}
	err = errors.Newf(errors.CodeNotFound, "no exported value found for %s in %s", name, path)
	return "", errors.AddContext(err, errors.CtxSymbol, name)
}

// ResolveMember always yields an empty value: property access on imported
// objects is not followed.
func (r *Resolver) ResolveMember(*parser.Module, *sitter.Node) (string, error) {
	return "", nil
}

func findBinding(name string, m *parser.Module) (ImportBinding, bool) {
	for _, b := range Bindings(m) {
		if b.Local == name {
			return b, true
		}
	}
	return ImportBinding{}, false
}

// resolvePath locates the file behind an import source relative to the
// importing module and returns its canonical absolute path.
func resolvePath(source string, m *parser.Module) (string, error) {
	base := filepath.Join(filepath.Dir(m.Path), filepath.FromSlash(source))

	candidates := []string{base}
	if !parser.IsSourcePath(base) {
		own := m.Dialect.Extension()
		candidates = []string{base + own}
		for _, ext := range parser.ResolutionExtensions {
			if ext != own {
				candidates = append(candidates, base+ext)
			}
		}
	}

	var firstErr error
	for _, candidate := range candidates {
		path, err := canonicalize(candidate)
		if err == nil {
			return path, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return "", firstErr
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", &os.PathError{Op: "resolve", Path: resolved, Err: os.ErrNotExist}
	}
	return resolved, nil
}

// exportedTemplateValue scans `export const|let|var` statements. Only the
// first declarator of each declaration is considered.
func exportedTemplateValue(name string, m *parser.Module) (string, bool) {
	for _, stmt := range parser.TopLevel(m, "export_statement") {
		decl := stmt.ChildByFieldName("declaration")
		if decl == nil {
			continue
		}
		if decl.Kind() != "lexical_declaration" && decl.Kind() != "variable_declaration" {
			continue
		}
		declarator := parser.ChildOfKind(decl, "variable_declarator")
		if declarator == nil {
			continue
		}
		id := declarator.ChildByFieldName("name")
		if id == nil || id.Kind() != "identifier" || m.Text(id) != name {
			continue
		}
		if tpl, ok := parser.AsTaggedTemplate(m, declarator.ChildByFieldName("value")); ok {
			return tpl.Quasis[0], true
		}
	}
	return "", false
}
