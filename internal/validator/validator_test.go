package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unach/escuela-backend/internal/model"
)

func bindBody(t *testing.T, body string, dst any) map[string]string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return Bind(c, dst)
}

func TestBindUsesJSONFieldNames(t *testing.T) {
	Setup()

	var req model.SubjectRequest
	fields := bindBody(t, `{"nombre":"Álgebra","creditos":0}`, &req)

	require.NotNil(t, fields)
	assert.Contains(t, fields, "codigo")
	assert.Contains(t, fields, "creditos")
	assert.NotContains(t, fields, "nombre")
}

func TestBindReportsSyntaxErrorsAsDetail(t *testing.T) {
	Setup()

	var req model.SubjectRequest
	fields := bindBody(t, `{"nombre":`, &req)

	require.NotNil(t, fields)
	assert.Contains(t, fields, "detail")
}

func TestBindAcceptsValidPayload(t *testing.T) {
	Setup()

	var req model.StudentRequest
	fields := bindBody(t, `{"nombre":"Ana López","grado":3,"email":"ana@escuela.mx"}`, &req)

	assert.Nil(t, fields)
	assert.Equal(t, 3, req.Grade)
	assert.Nil(t, req.TeacherID)
}

func TestBindRejectsBlankNames(t *testing.T) {
	Setup()

	var req model.TeacherRequest
	fields := bindBody(t, `{"nombre":"    ","email":"rosa@escuela.mx"}`, &req)

	require.NotNil(t, fields)
	assert.Equal(t, "nombre no puede estar en blanco", fields["nombre"])
}
