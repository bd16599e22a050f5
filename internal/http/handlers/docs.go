package handlers

import (
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPISource []byte

var openAPIDocument = sync.OnceValues(func() (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(openAPISource, &doc); err != nil {
		return nil, fmt.Errorf("parse openapi.yaml: %w", err)
	}
	return doc, nil
})

// APIDocs serves the OpenAPI 3 description of the HTTP API as JSON.
func APIDocs(c *gin.Context) {
	doc, err := openAPIDocument()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "api docs unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, doc)
}

// APIDocsYAML serves the OpenAPI document in its source form.
func APIDocsYAML(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", openAPISource)
}
