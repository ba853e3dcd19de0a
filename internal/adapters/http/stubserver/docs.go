package stubserver

import (
	_ "embed"
	"net/http"
)

// OpenAPI is the embedded description of the stub's routes.
//
//go:embed openapi.yaml
var OpenAPI []byte

// ReDoc page loading /openapi.yaml.
const docsHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Portal API Docs</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc spec-url="/openapi.yaml"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
  </body>
</html>`

func handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(OpenAPI)
}

func handleDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(docsHTML))
}
