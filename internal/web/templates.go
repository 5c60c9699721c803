package web

import (
	"html/template"
	"io"
	"io/fs"
	"path"
	"sync"
)

// TemplateProvider abstracts template loading and execution.
// Production uses FSTemplateProvider; tests use MockTemplateProvider.
type TemplateProvider interface {
	// GetTemplate returns a parsed template by name.
	GetTemplate(name string) (*template.Template, error)
	// ExecuteTemplate executes a template with the given data.
	ExecuteTemplate(w io.Writer, name string, data interface{}) error
}

// FSTemplateProvider loads templates from a filesystem, normally the
// embedded templates directory. With caching off every call re-reads the
// file, which is what -dev uses to pick up edits without a rebuild.
type FSTemplateProvider struct {
	fsys    fs.FS
	baseDir string
	cache   bool

	mu     sync.Mutex
	parsed map[string]*template.Template
}

// NewFSTemplateProvider creates a provider reading from baseDir within fsys.
func NewFSTemplateProvider(fsys fs.FS, baseDir string, cache bool) *FSTemplateProvider {
	return &FSTemplateProvider{
		fsys:    fsys,
		baseDir: baseDir,
		cache:   cache,
		parsed:  make(map[string]*template.Template),
	}
}

// NewEmbeddedTemplateProvider serves the templates compiled into the binary.
func NewEmbeddedTemplateProvider() *FSTemplateProvider {
	return NewFSTemplateProvider(templateFS, "templates", true)
}

// GetTemplate parses (and, if enabled, caches) a template.
func (p *FSTemplateProvider) GetTemplate(name string) (*template.Template, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t, ok := p.parsed[name]; ok {
		return t, nil
	}

	file := name
	if p.baseDir != "" {
		file = path.Join(p.baseDir, name)
	}

	content, err := fs.ReadFile(p.fsys, file)
	if err != nil {
		return nil, err
	}

	t, err := template.New(name).Funcs(templateFuncs).Parse(string(content))
	if err != nil {
		return nil, err
	}

	if p.cache {
		p.parsed[name] = t
	}
	return t, nil
}

// ExecuteTemplate loads and executes a template.
func (p *FSTemplateProvider) ExecuteTemplate(w io.Writer, name string, data interface{}) error {
	t, err := p.GetTemplate(name)
	if err != nil {
		return err
	}
	return t.Execute(w, data)
}

// MockTemplateProvider provides templates for testing.
type MockTemplateProvider struct {
	Templates    map[string]string
	ExecuteError error
	ExecuteCalls []executeCall
	GetError     error
}

type executeCall struct {
	Name string
	Data interface{}
}

// NewMockTemplateProvider creates a mock provider with predefined templates.
func NewMockTemplateProvider(templates map[string]string) *MockTemplateProvider {
	return &MockTemplateProvider{
		Templates:    templates,
		ExecuteCalls: []executeCall{},
	}
}

// GetTemplate returns a parsed template from the mock templates.
func (m *MockTemplateProvider) GetTemplate(name string) (*template.Template, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}

	content, ok := m.Templates[name]
	if !ok {
		return nil, fs.ErrNotExist
	}

	return template.New(name).Funcs(templateFuncs).Parse(content)
}

// ExecuteTemplate records the call and executes the template.
func (m *MockTemplateProvider) ExecuteTemplate(w io.Writer, name string, data interface{}) error {
	m.ExecuteCalls = append(m.ExecuteCalls, executeCall{Name: name, Data: data})

	if m.ExecuteError != nil {
		return m.ExecuteError
	}

	t, err := m.GetTemplate(name)
	if err != nil {
		return err
	}

	return t.Execute(w, data)
}
