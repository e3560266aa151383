package proxy

import (
	"bytes"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Proxy Handler
// ============================================================

// hopHeaders не копируются между клиентом и upstream.
var hopHeaders = map[string]bool{
	"Connection":        true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Upgrade":           true,
	"Content-Length":    true,
}

type Proxy struct {
	target string
	client *http.Client
	log    *slog.Logger
}

// New: прокси к сервису по базовому URL (без завершающего слэша).
func New(target string, timeout time.Duration, log *slog.Logger) *Proxy {
	return &Proxy{
		target: strings.TrimRight(target, "/"),
		client: &http.Client{Timeout: timeout},
		log:    log.With("component", "proxy"),
	}
}

// Strip проксирует запрос, отрезая prefix от пути: /api/v1/sessions -> /sessions.
func (p *Proxy) Strip(prefix string) fiber.Handler {
	return func(c fiber.Ctx) error {
		path := strings.TrimPrefix(c.Path(), prefix)
		if path == "" {
			path = "/"
		}
		return p.Forward(c, path)
	}
}

// Forward проксирует запрос на target+path, сохраняя query string.
func (p *Proxy) Forward(c fiber.Ctx, path string) error {
	targetURL := p.target + path
	if qs := string(c.Request().URI().QueryString()); qs != "" {
		targetURL += "?" + qs
	}

	contentType := c.Get(fiber.HeaderContentType)
	p.log.Debug("forward",
		"method", c.Method(),
		"path", c.Path(),
		"target", targetURL,
		"content_type", contentType,
		"bytes", len(c.Body()),
	)

	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		return p.sendMultipart(c, targetURL)
	}
	return p.send(c, targetURL, contentType, bytes.NewReader(c.Body()))
}

func (p *Proxy) send(c fiber.Ctx, targetURL, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(c.Context(), c.Method(), targetURL, body)
	if err != nil {
		p.log.Error("build request", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}

	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	if accept := c.Get(fiber.HeaderAccept); accept != "" {
		req.Header.Set(fiber.HeaderAccept, accept)
	}
	req.Header.Set(fiber.HeaderXForwardedFor, c.IP())

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Warn("upstream unreachable", "target", targetURL, "error", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return p.copyResponse(c, resp)
}

// sendMultipart пересобирает форму: fiber уже разобрал тело, исходный boundary потерян.
func (p *Proxy) sendMultipart(c fiber.Ctx, targetURL string) error {
	form, err := c.MultipartForm()
	if err != nil {
		p.log.Warn("parse multipart", "error", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid multipart data"})
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, files := range form.File {
		for _, fileHeader := range files {
			if err := copyPart(writer, key, fileHeader); err != nil {
				p.log.Warn("copy multipart file", "field", key, "file", fileHeader.Filename, "error", err)
				return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid multipart data"})
			}
		}
	}
	for key, values := range form.Value {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
			}
		}
	}
	if err := writer.Close(); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}

	return p.send(c, targetURL, writer.FormDataContentType(), body)
}

func copyPart(writer *multipart.Writer, key string, fileHeader *multipart.FileHeader) error {
	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     key,
		"filename": fileHeader.Filename,
	}))
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
		h.Set("Content-Type", ct)
	}

	part, err := writer.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, file)
	return err
}

func (p *Proxy) copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		p.log.Warn("read upstream response", "error", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if hopHeaders[key] || len(values) == 0 {
			continue
		}
		c.Set(key, values[0])
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}
