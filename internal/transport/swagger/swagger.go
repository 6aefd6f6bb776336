package swagger

import (
	"net/http"

	"github.com/frahmantamala/idea-portal/api"
	httpSwagger "github.com/swaggo/http-swagger"
)

func Handler() http.Handler {
	// UI reads the document served at /openapi.yml
	return httpSwagger.Handler(
		httpSwagger.URL("/openapi.yml"),
	)
}

// SpecHandler serves the embedded OpenAPI document.
func SpecHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(api.Spec)
}
