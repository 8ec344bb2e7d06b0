package middleware

import "net/http"

const (
	ContentTypeJSON = "application/json; charset=utf-8"

	allowOriginHeader  = "Access-Control-Allow-Origin"
	allowMethodsHeader = "Access-Control-Allow-Methods"
	allowHeadersHeader = "Access-Control-Allow-Headers"
)

// JSONHeaders stamps the JSON content type and the any-origin header on every response
// of the wrapped handler, before the handler writes anything.
func JSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", ContentTypeJSON)
		w.Header().Set(allowOriginHeader, "*")
		next.ServeHTTP(w, r)
	})
}

// Preflight answers an OPTIONS request with 204, no body and a permissive
// cross-origin policy limited to the given methods.
func Preflight(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		h := w.Header()
		h.Del("Content-Type")
		h.Set(allowOriginHeader, "*")
		h.Set(allowMethodsHeader, methods)
		h.Set(allowHeadersHeader, "Content-Type")
		w.WriteHeader(http.StatusNoContent)
	}
}

// MethodNotAllowed writes a bare 405.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Del("Content-Type")
	w.WriteHeader(http.StatusMethodNotAllowed)
}
