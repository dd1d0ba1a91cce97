package dihttp

import (
	"go.uber.org/zap"

	"github.com/sectrean/di-context"
)

// ContainerMiddlewareOption is an option used to configure the middleware when calling
// [RequestContainerMiddleware].
type ContainerMiddlewareOption interface {
	applyContainerMiddleware(*containerMiddleware)
}

type containerMiddlewareOption func(*containerMiddleware)

func (o containerMiddlewareOption) applyContainerMiddleware(m *containerMiddleware) {
	o(m)
}

// WithContainerOptions sets the options to use when calling [di.NewContainerAsync] for each request.
func WithContainerOptions(opts ...di.ContainerOption) ContainerMiddlewareOption {
	return containerMiddlewareOption(func(m *containerMiddleware) {
		m.opts = append(m.opts, opts...)
	})
}

// WithLogger sets the logger used by the default error handlers.
// It is also passed to each request container with [di.WithLogger].
func WithLogger(logger *zap.Logger) ContainerMiddlewareOption {
	return containerMiddlewareOption(func(m *containerMiddleware) {
		if logger == nil {
			logger = zap.NewNop()
		}
		m.logger = logger
	})
}

// WithNewContainerErrorHandler sets the error handler for when there is an error creating
// a request container. A nil handler restores the default.
func WithNewContainerErrorHandler(fn NewContainerErrorHandler) ContainerMiddlewareOption {
	return containerMiddlewareOption(func(m *containerMiddleware) {
		m.newContainerHandler = fn
	})
}

// WithContainerCloseErrorHandler sets the error handler for when there is an error closing
// a request container. A nil handler restores the default.
func WithContainerCloseErrorHandler(fn ContainerCloseErrorHandler) ContainerMiddlewareOption {
	return containerMiddlewareOption(func(m *containerMiddleware) {
		m.closeHandler = fn
	})
}
