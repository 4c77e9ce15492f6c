package platform

import (
	"context"
	"io"

	"github.com/aretw0/notely/pkg/notebook"
)

// New opens the store selected by opts and returns a loaded notebook service.
//
//	svc, err := notely.New(ctx, "./notes", notely.WithAutoInit(true))
func New(ctx context.Context, uri string, opts ...Option) (*notebook.Service, error) {
	o := apply(opts)

	store, err := initStore(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	eventBuffer, _ := o.config["event_buffer"].(int)
	errorHandler, _ := o.config["error_handler"].(func(error))
	svc := notebook.NewService(store, notebook.Config{
		Logger:         o.logger,
		PermissiveTags: o.flag("permissive_tags", false),
		ReadOnly:       o.flag("read_only", false),
		EventBuffer:    eventBuffer,
		ErrorHandler:   errorHandler,
		NewID:          o.newID,
	})

	if err := svc.Load(ctx); err != nil {
		if c, ok := store.(io.Closer); ok && o.store == nil {
			_ = c.Close()
		}
		return nil, err
	}
	return svc, nil
}
