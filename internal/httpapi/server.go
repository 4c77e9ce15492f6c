// Package httpapi serves a notebook over HTTP with echo.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/aretw0/notely/pkg/core"
)

// Notebook is the part of notebook.Service the API needs.
type Notebook interface {
	Tags() []core.Tag
	Tag(id string) (core.Tag, bool)
	View(id string) (core.NoteView, bool)
	Filter(q core.Query) []core.NoteView
	CreateNote(ctx context.Context, data core.NoteData) (core.Note, error)
	UpdateNote(ctx context.Context, id string, data core.NoteData) (core.Outcome, error)
	DeleteNote(ctx context.Context, id string) (core.Outcome, error)
	AddTag(ctx context.Context, tag core.Tag) (core.Outcome, error)
	NewTag(ctx context.Context, label string) (core.Tag, error)
	UpdateTag(ctx context.Context, id, label string) (core.Outcome, error)
	DeleteTag(ctx context.Context, id string) (core.Outcome, error)
	Subscribe(ctx context.Context) <-chan core.Event
	State() any
}

// New builds the echo instance with middleware and routes.
func New(nb Notebook, logger *slog.Logger) *echo.Echo {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				logger.Warn("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.Debug("request", attrs...)
			return nil
		},
	}))
	Register(e, nb)
	return e
}

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, nb Notebook) {
	e.GET("/api/notes", listNotes(nb))
	e.POST("/api/notes", createNote(nb))
	e.GET("/api/notes/:id", getNote(nb))
	e.PUT("/api/notes/:id", updateNote(nb))
	e.DELETE("/api/notes/:id", deleteNote(nb))

	e.GET("/api/tags", listTags(nb))
	e.POST("/api/tags", createTag(nb))
	e.PUT("/api/tags/:id", updateTag(nb))
	e.DELETE("/api/tags/:id", deleteTag(nb))

	e.GET("/api/events", streamEvents(nb))
	e.GET("/healthz", healthz(nb))
}

// Serve runs e on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, e *echo.Echo, addr string, shutdownTimeout time.Duration) error {
	// Requests inherit ctx so open event streams end with the server.
	e.Server.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// errorHandler maps domain errors to status codes and answers with a JSON message.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := "internal error"

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		case errors.Is(err, core.ErrReadOnly):
			code, msg = http.StatusForbidden, err.Error()
		case errors.Is(err, core.ErrDuplicateTag):
			code, msg = http.StatusConflict, err.Error()
		case errors.Is(err, core.ErrEmptyID):
			code, msg = http.StatusBadRequest, err.Error()
		default:
			logger.Error("unhandled request error", "path", c.Path(), "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, map[string]string{"message": msg})
		}
		if err != nil {
			logger.Error("failed to write error response", "error", err)
		}
	}
}
