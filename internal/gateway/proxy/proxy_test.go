package proxy

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"schematic-editor/internal/common/logging"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seen struct {
	method      string
	path        string
	query       string
	contentType string
	body        string
	fileName    string
	fileBody    string
}

func upstream(t *testing.T, got *seen) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		got.contentType = r.Header.Get("Content-Type")

		if strings.HasPrefix(got.contentType, "multipart/form-data") {
			file, header, err := r.FormFile("file")
			if err == nil {
				data, _ := io.ReadAll(file)
				got.fileName = header.Filename
				got.fileBody = string(data)
			}
		} else {
			data, _ := io.ReadAll(r.Body)
			got.body = string(data)
		}

		w.Header().Set("Content-Disposition", `attachment; filename="circuit-design-2024-01-01.json"`)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGateway(target string) *fiber.App {
	p := New(target, 2*time.Second, logging.Discard())
	app := fiber.New()
	app.All("/api/v1/*", p.Strip("/api/v1"))
	return app
}

func TestForward_RawBody(t *testing.T) {
	var got seen
	app := newGateway(upstream(t, &got).URL)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/sessions/abc/components/r1?dry=1", strings.NewReader(`{"value":"1k"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, http.MethodPatch, got.method)
	assert.Equal(t, "/sessions/abc/components/r1", got.path)
	assert.Equal(t, "dry=1", got.query)
	assert.Equal(t, "application/json", got.contentType)
	assert.Equal(t, `{"value":"1k"}`, got.body)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "circuit-design-2024-01-01.json")

	data, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}

func TestForward_Multipart(t *testing.T) {
	var got seen
	app := newGateway(upstream(t, &got).URL)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "design.json")
	require.NoError(t, err)
	_, _ = part.Write([]byte(`{"components":[],"wires":[]}`))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abc/import", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/sessions/abc/import", got.path)
	assert.Equal(t, "design.json", got.fileName)
	assert.Equal(t, `{"components":[],"wires":[]}`, got.fileBody)
}

func TestForward_MultipartQuotedFilename(t *testing.T) {
	var got seen
	app := newGateway(upstream(t, &got).URL)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", `my "best" design.json`)
	require.NoError(t, err)
	_, _ = part.Write([]byte(`{"components":[],"wires":[]}`))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abc/import", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, `my "best" design.json`, got.fileName)
	assert.Equal(t, `{"components":[],"wires":[]}`, got.fileBody)
}

func TestForward_UpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	target := srv.URL
	srv.Close()

	app := newGateway(target)
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
