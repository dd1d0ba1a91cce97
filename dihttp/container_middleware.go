package dihttp

import (
	"net/http"
	"slices"

	"go.uber.org/zap"

	"github.com/sectrean/di-context"
	"github.com/sectrean/di-context/dicontext"
	"github.com/sectrean/di-context/internal/errors"
)

// RequestContainerMiddleware creates a new [di.Container] for each request.
// The container is closed after the request has been processed, also when the handler panics.
//
// The current [*http.Request] is inserted into the container as a single owner.
// Constructors can access it with [di.GetSingle].
//
// The container is stored on the request context and can be accessed using
// [dicontext.Container], [dicontext.Resolve], or [dicontext.MustResolve].
// The container is flushed with the request context, so eager async constructors are supported.
//
// Available options:
//   - [WithContainerOptions]: Set the [di.ContainerOption]s used to create each request container.
//   - [WithLogger]: Set the logger for the default error handlers and the request containers.
//   - [WithNewContainerErrorHandler]: Set the error handler for when there is an error creating a container.
//   - [WithContainerCloseErrorHandler]: Set the error handler for when there is an error closing the container.
func RequestContainerMiddleware(opts ...ContainerMiddlewareOption) func(http.Handler) http.Handler {
	mw := &containerMiddleware{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt.applyContainerMiddleware(mw)
	}
	if mw.newContainerHandler == nil {
		mw.newContainerHandler = mw.defaultNewContainerErrorHandler
	}
	if mw.closeHandler == nil {
		mw.closeHandler = mw.defaultContainerCloseErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mw.serveHTTP(w, r, next)
		})
	}
}

// NewContainerErrorHandler is a function that writes an error response to the client.
// This is called by the middleware when there is an error creating the [di.Container].
//
// The default handler logs the error and writes a 500 Internal Server Error response.
type NewContainerErrorHandler = func(w http.ResponseWriter, r *http.Request, err error)

// ContainerCloseErrorHandler is a function that handles errors when closing the [di.Container]
// after the request has completed.
//
// The default handler logs the error.
type ContainerCloseErrorHandler = func(r *http.Request, err error)

type containerMiddleware struct {
	opts                []di.ContainerOption
	logger              *zap.Logger
	newContainerHandler NewContainerErrorHandler
	closeHandler        ContainerCloseErrorHandler
}

func (m *containerMiddleware) defaultNewContainerErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	m.logger.Error("error creating HTTP request container",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (m *containerMiddleware) defaultContainerCloseErrorHandler(r *http.Request, err error) {
	m.logger.Error("error closing HTTP request container",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
}

func (m *containerMiddleware) serveHTTP(w http.ResponseWriter, r *http.Request, next http.Handler) {
	c, err := m.newContainer(r)
	if err != nil {
		m.newContainerHandler(w, r, err)
		return
	}

	ctx := dicontext.WithContainer(r.Context(), c)
	defer func() {
		err := c.Close(ctx)
		if err != nil {
			m.closeHandler(r, err)
		}
	}()

	next.ServeHTTP(w, r.WithContext(ctx))
}

// newContainer creates the request container. Errors the container panics with
// while loading and flushing are returned.
func (m *containerMiddleware) newContainer(r *http.Request) (c *di.Container, err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		rerr, ok := rec.(error)
		if !ok {
			panic(rec)
		}
		err = errors.Wrap(rerr, "dihttp: new request container")
	}()

	opts := make([]di.ContainerOption, 0, len(m.opts)+2)
	opts = append(opts, di.WithLogger(m.logger))
	opts = append(opts, slices.Clone(m.opts)...)
	opts = append(opts, di.WithSingleOwner(r))

	return di.NewContainerAsync(r.Context(), opts...), nil
}
