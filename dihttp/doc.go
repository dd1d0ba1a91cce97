/*
Package dihttp provides HTTP middleware that creates a [di.Container] for each request.

A [di.Container] is not safe for concurrent use, so every request gets its own container
built from the same modules. The container is closed when the request completes.

Example:

	package main

	import (
		"net/http"

		"github.com/go-chi/chi/v5"

		"github.com/sectrean/di-context"
		"github.com/sectrean/di-context/dicontext"
		"github.com/sectrean/di-context/dihttp"
	)

	func main() {
		r := chi.NewRouter()

		// Create a container for each request with the application module
		r.Use(dihttp.RequestContainerMiddleware(
			dihttp.WithContainerOptions(di.WithModules(AppModule{})),
		))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			svc := dicontext.MustResolve[*Service](r.Context())

			svc.HandleRequest(w, r)
		})

		http.ListenAndServe(":8080", r)
	}
*/
package dihttp
