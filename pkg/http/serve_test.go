package xhttp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func newCtx(method, path string) *RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	return ctx
}

func TestEngine_MiddlewareOrder(t *testing.T) {
	e := CreateServer()
	var trail []string
	mark := func(name string) MiddlewareFunc {
		return func(next RequestHandler) RequestHandler {
			return func(ctx *RequestCtx) {
				trail = append(trail, name)
				next(ctx)
			}
		}
	}
	e.Use(mark("first"))
	e.Use(mark("second"))
	e.GET("/ping", func(ctx *RequestCtx) {
		trail = append(trail, "handler")
		ctx.SetBodyString("pong")
	})

	ctx := newCtx("GET", "/ping")
	e.Handler()(ctx)

	assert.Equal(t, []string{"first", "second", "handler"}, trail)
	assert.Equal(t, "pong", string(ctx.Response.Body()))
}

func TestEngine_NotFound(t *testing.T) {
	e := CreateServer()
	e.GET("/ping", func(ctx *RequestCtx) {})

	ctx := newCtx("GET", "/nothing-here")
	e.Handler()(ctx)

	assert.Equal(t, StatusNotFound, ctx.Response.StatusCode())
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(func(ctx *RequestCtx) {
		ctx.SetBodyString("partial")
		panic("boom")
	})

	ctx := newCtx("GET", "/explode")
	assert.NotPanics(t, func() { h(ctx) })
	assert.Equal(t, StatusInternalServerError, ctx.Response.StatusCode())
	assert.Equal(t, StatusText(StatusInternalServerError), string(ctx.Response.Body()))
}

func TestRequestLoggerMiddleware_PassesThrough(t *testing.T) {
	called := 0
	h := RequestLoggerMiddleware(func(ctx *RequestCtx) {
		called++
		ctx.SetStatusCode(StatusConflict)
	})

	for _, path := range []string{"/api/v1/groups", "/health"} {
		ctx := newCtx("POST", path)
		ctx.Request.Header.Set("X-Request-Id", "req-1")
		h(ctx)
		assert.Equal(t, StatusConflict, ctx.Response.StatusCode())
	}
	assert.Equal(t, 2, called)
}

func TestShouldSkip(t *testing.T) {
	assert.True(t, shouldSkip("/health"))
	assert.True(t, shouldSkip("/metrics"))
	assert.False(t, shouldSkip("/api/v1/health"))
}
