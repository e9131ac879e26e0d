package template_test

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatehouse"
	"github.com/xy-planning-network/gatehouse/http/template"
)

func TestParse(t *testing.T) {
	// Arrange
	filesys := fstest.MapFS{
		"tmpl/layout.tmpl": &fstest.MapFile{Data: []byte(`{{ block "content" . }}{{ end }} env: {{ env }}`)},
		"tmpl/home.tmpl":   &fstest.MapFile{Data: []byte(`{{ define "content" }}hello{{ end }}`)},
	}

	p := template.NewParser(
		template.WithFS(filesys),
		template.WithFn(template.Env(gatehouse.Testing)),
	)

	// Act
	_, err := p.Parse()

	// Assert
	require.ErrorIs(t, err, template.ErrNoFiles)

	// Act
	tmpl, err := p.Parse("tmpl/layout.tmpl", "tmpl/home.tmpl")

	// Assert
	require.Nil(t, err)

	b := new(bytes.Buffer)
	require.Nil(t, tmpl.ExecuteTemplate(b, "layout.tmpl", nil))
	require.Equal(t, "hello env: TESTING", b.String())
}

func TestAddFn(t *testing.T) {
	// Arrange
	filesys := fstest.MapFS{
		"tmpl/nonce.tmpl": &fstest.MapFile{Data: []byte(`{{ nonce }}`)},
	}
	p := template.NewParser(template.WithFS(filesys))

	// Act
	p.AddFn(template.Nonce())
	tmpl, err := p.Parse("tmpl/nonce.tmpl")

	// Assert
	require.Nil(t, err)

	b := new(bytes.Buffer)
	require.Nil(t, tmpl.ExecuteTemplate(b, "nonce.tmpl", nil))
	require.NotEmpty(t, b.String())
}
