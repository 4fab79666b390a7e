package providers

import (
	"medilens/internal/structures"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	Delete(url string, handler http.Handler)
	GetRoutes() []structures.Route
	Mount(r chi.Router)
}

type RouterProvider struct {
	routes []structures.Route
}

func (rp *RouterProvider) add(method, url string, handler http.Handler) {
	rp.routes = append(rp.routes, structures.Route{
		Method:  method,
		Url:     url,
		Handler: handler,
	})
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(http.MethodPost, url, handler)
}

func (rp *RouterProvider) Delete(url string, handler http.Handler) {
	rp.add(http.MethodDelete, url, handler)
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

// Mount registers every collected route on r; chi answers 405 for known paths with the wrong method.
func (rp *RouterProvider) Mount(r chi.Router) {
	for _, route := range rp.routes {
		r.Method(route.Method, route.Url, route.Handler)
	}
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{}
}
