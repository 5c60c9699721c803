package web

import (
	"bytes"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTemplateProvider_GetTemplate(t *testing.T) {
	provider := NewMockTemplateProvider(map[string]string{
		"test.html": "<h1>{{.Title}}</h1>",
	})

	tmpl, err := provider.GetTemplate("test.html")
	if err != nil {
		t.Fatalf("GetTemplate failed: %v", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]string{"Title": "Hello"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	expected := "<h1>Hello</h1>"
	if buf.String() != expected {
		t.Errorf("got %q, want %q", buf.String(), expected)
	}
}

func TestMockTemplateProvider_GetTemplate_NotFound(t *testing.T) {
	provider := NewMockTemplateProvider(map[string]string{})

	_, err := provider.GetTemplate("nonexistent.html")
	if err != fs.ErrNotExist {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestMockTemplateProvider_GetTemplate_Error(t *testing.T) {
	provider := NewMockTemplateProvider(map[string]string{})
	provider.GetError = fs.ErrPermission

	_, err := provider.GetTemplate("any.html")
	if err != fs.ErrPermission {
		t.Errorf("expected fs.ErrPermission, got %v", err)
	}
}

func TestMockTemplateProvider_ExecuteTemplate_Funcs(t *testing.T) {
	provider := NewMockTemplateProvider(map[string]string{
		"page.html": "{{compression .C}} {{biomass .B}} {{protein .P}} {{unixTime .T}}",
	})

	var buf bytes.Buffer
	err := provider.ExecuteTemplate(&buf, "page.html", map[string]interface{}{
		"C": 9.81, "B": 5871.4, "P": 9.2, "T": int64(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "9.81 5871 9.20 1970-01-01 00:00", buf.String())
	require.Len(t, provider.ExecuteCalls, 1)
	assert.Equal(t, "page.html", provider.ExecuteCalls[0].Name)
}

func TestEmbeddedTemplateProvider(t *testing.T) {
	provider := NewEmbeddedTemplateProvider()

	first, err := provider.GetTemplate(indexTemplate)
	require.NoError(t, err)
	second, err := provider.GetTemplate(indexTemplate)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = provider.GetTemplate("missing.html")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFSTemplateProvider_NoCacheRereads(t *testing.T) {
	fsys := fstest.MapFS{
		"tpl/page.html": {Data: []byte("v1 {{.}}")},
	}
	provider := NewFSTemplateProvider(fsys, "tpl", false)

	var buf bytes.Buffer
	require.NoError(t, provider.ExecuteTemplate(&buf, "page.html", "x"))
	assert.Equal(t, "v1 x", buf.String())

	fsys["tpl/page.html"] = &fstest.MapFile{Data: []byte("v2 {{.}}")}
	buf.Reset()
	require.NoError(t, provider.ExecuteTemplate(&buf, "page.html", "y"))
	assert.Equal(t, "v2 y", buf.String())
}

func TestFSTemplateProvider_ParseError(t *testing.T) {
	fsys := fstest.MapFS{"bad.html": {Data: []byte("{{.Broken")}}
	provider := NewFSTemplateProvider(fsys, "", true)

	var buf bytes.Buffer
	assert.Error(t, provider.ExecuteTemplate(&buf, "bad.html", nil))
}
