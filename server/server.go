// Package server serves the live preview over HTTP.
package server

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/LingHeChen/datevar/preview"
)

const jsonContentType = "application/json"

// Server is the preview HTTP server
type Server struct {
	svc    *preview.Service
	logger *slog.Logger
	srv    *fasthttp.Server
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTimeouts sets the read and write timeouts, zero keeps the default
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		if read > 0 {
			s.srv.ReadTimeout = read
		}
		if write > 0 {
			s.srv.WriteTimeout = write
		}
	}
}

// New creates a server rendering through svc
func New(svc *preview.Service, opts ...Option) *Server {
	s := &Server{
		svc:    svc,
		logger: slog.Default(),
		srv: &fasthttp.Server{
			Name:         "datevar",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.srv.Handler = s.Handler
	return s
}

// Serve accepts connections on ln until Shutdown
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("serving preview", "addr", ln.Addr().String())
	return s.srv.Serve(ln)
}

// ListenAndServe listens on addr and serves
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Shutdown stops accepting connections and waits for open ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

// Handler routes a request and logs it
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	switch string(ctx.Path()) {
	case "/":
		if s.allow(ctx, fasthttp.MethodGet) {
			s.handleIndex(ctx)
		}
	case "/preview":
		if s.allow(ctx, fasthttp.MethodPost) {
			s.handlePreview(ctx)
		}
	case "/healthz":
		if s.allow(ctx, fasthttp.MethodGet) {
			ctx.Success("text/plain; charset=utf-8", []byte("ok"))
		}
	default:
		ctx.Error("not found", fasthttp.StatusNotFound)
	}
	s.logger.Info("request",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"duration", time.Since(start))
}

func (s *Server) allow(ctx *fasthttp.RequestCtx, method string) bool {
	m := string(ctx.Method())
	if m == method || (method == fasthttp.MethodGet && m == fasthttp.MethodHead) {
		return true
	}
	ctx.Response.Header.Set("Allow", method)
	ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
	return false
}

func (s *Server) handleIndex(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/html; charset=utf-8")
	data := struct {
		MaxLength int
		NoLimit   int
		Result    preview.Result
	}{
		MaxLength: s.svc.MaxLength(),
		NoLimit:   preview.NoLimit,
		Result:    s.svc.Render("", nil),
	}
	if err := pageTemplate.Execute(ctx, data); err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
	}
}

func (s *Server) handlePreview(ctx *fasthttp.RequestCtx) {
	res := s.svc.RenderParams(string(ctx.FormValue("content")), string(ctx.FormValue("date")))

	if strings.Contains(string(ctx.Request.Header.Peek(fasthttp.HeaderAccept)), jsonContentType) {
		buf, err := json.Marshal(res)
		if err != nil {
			ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
			return
		}
		ctx.Success(jsonContentType, buf)
		return
	}

	ctx.SetContentType("text/html; charset=utf-8")
	if err := resultTemplate.Execute(ctx, res); err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
	}
}

var resultTemplate = template.Must(template.New("result").Parse(
	`<div id="result" class="{{if .Fallback}}fallback{{end}}">{{.Text}}</div>
<div id="counter" class="{{if .Counter.Over}}over{{end}}">{{.Counter.Indicator}}</div>
`))

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>datevar</title></head>
<body>
<form method="post" action="/preview">
<textarea name="content" rows="6" cols="80"{{if ne .MaxLength .NoLimit}} maxlength="{{.MaxLength}}"{{end}}></textarea>
<input type="date" name="date">
<button type="submit">Preview</button>
</form>
<div id="result" class="fallback">{{.Result.Text}}</div>
<div id="counter">{{.Result.Counter.Indicator}}</div>
</body>
</html>
`))
