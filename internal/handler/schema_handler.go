package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/response"
	"github.com/unach/escuela-backend/internal/service"
)

// SchemaHandler exposes the schema bootstrap over HTTP.
type SchemaHandler struct {
	schemaService *service.SchemaService
	log           zerolog.Logger
}

// NewSchemaHandler creates a new SchemaHandler.
func NewSchemaHandler(schemaService *service.SchemaService, log zerolog.Logger) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
		log:           log.With().Str("component", "schema_handler").Logger(),
	}
}

// EnsureSchema godoc
// POST /setup-tables
// POST /init-db
// Applies pending migrations. Safe to call repeatedly.
func (h *SchemaHandler) EnsureSchema(c *gin.Context) {
	status, err := h.schemaService.EnsureSchema()
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, status)
}
