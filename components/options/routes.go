package options

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath returns the full mount path for the route under basePath.
func MountPath(basePath string, fns ...ConfigFn) string {
	return mountPath(basePath, NewConfig(fns...).RoutePath)
}

// RegisterRoutes registers handler under basePath on mux and returns the
// pattern used.
func RegisterRoutes(mux Mux, basePath string, handler http.Handler, fns ...ConfigFn) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("options: missing mux")
	}
	if handler == nil {
		return "", fmt.Errorf("options: missing handler")
	}
	pattern := MountPath(basePath, fns...)
	mux.Handle(pattern, handler)
	return pattern, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return strings.TrimRight(basePath, "/") + routePath
}
