package parser

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tikaXHTML = `<html xmlns="http://www.w3.org/1999/xhtml"><head><title></title></head><body>
<div class="page"><p>Jane Smith</p><p>jane.smith@example.com</p><p>  </p></div>
<div class="page"><p>SKILLS</p><p>Go, Docker</p></div>
</body></html>`

func newTikaServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var captured http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r.Clone(context.Background())
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestTikaExtractFromReader(t *testing.T) {
	srv, req := newTikaServer(t, http.StatusOK, tikaXHTML)
	extractor := NewTikaPDFExtractor(srv.URL+"/", WithAnnotations(false), WithTikaTimeout(5*time.Second))

	doc, err := extractor.ExtractFromReader(context.Background(), strings.NewReader("%PDF-1.4"), "resume.pdf")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/tika", req.URL.Path)
	assert.Equal(t, "text/html", req.Header.Get("Accept"))
	assert.Equal(t, "resume.pdf", req.Header.Get("X-Tika-Resource-Name"))
	assert.Equal(t, "false", req.Header.Get("X-Tika-PDFExtractAnnotationText"))

	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 1, doc.Pages[0].Number)
	assert.Equal(t, "Jane Smith\njane.smith@example.com", doc.Pages[0].Text())
	assert.Equal(t, "SKILLS\nGo, Docker", doc.PageText(2))
}

func TestTikaExtractWithoutPageMarkers(t *testing.T) {
	srv, _ := newTikaServer(t, http.StatusOK, "<html><body>plain resume text</body></html>")
	doc, err := NewTikaPDFExtractor(srv.URL).ExtractFromReader(context.Background(), strings.NewReader("x"), "a.pdf")
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, "plain resume text", doc.Text())
}

func TestTikaServerError(t *testing.T) {
	srv, _ := newTikaServer(t, http.StatusUnprocessableEntity, "")
	_, err := NewTikaPDFExtractor(srv.URL).ExtractFromReader(context.Background(), strings.NewReader("x"), "bad.pdf")
	require.Error(t, err)
	assert.True(t, IsDocumentReadError(err))
	assert.Contains(t, err.Error(), "422")
}

func TestTikaMissingFile(t *testing.T) {
	_, err := NewTikaPDFExtractor("http://127.0.0.1:1").Extract(context.Background(), filepath.Join(t.TempDir(), "none.pdf"))
	require.Error(t, err)
	assert.True(t, IsDocumentReadError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
