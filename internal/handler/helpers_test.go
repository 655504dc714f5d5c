package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parqueadero/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

type pagoDePrueba struct {
	Monto  decimal.Decimal `json:"monto" validate:"required,gt=0"`
	Nombre string          `json:"nombre" validate:"required"`
}

func contexto(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBindAndValidate_Valido(t *testing.T) {
	c, _ := contexto(`{"monto": "12.50", "nombre": "Ana"}`)
	var req pagoDePrueba
	require.True(t, bindAndValidate(c, &req))
	assert.Equal(t, "12.50", req.Monto.StringFixed(2))
}

func TestBindAndValidate_JSONMalformado(t *testing.T) {
	c, w := contexto(`{"monto":`)
	var req pagoDePrueba
	assert.False(t, bindAndValidate(c, &req))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBindAndValidate_CamposPorNombreJSON(t *testing.T) {
	c, w := contexto(`{"monto": "-1"}`)
	var req pagoDePrueba
	assert.False(t, bindAndValidate(c, &req))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body apierror.ValidationError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"monto": "gt", "nombre": "required"}, body.Fields)
}

func TestParamUUID(t *testing.T) {
	id := uuid.New()
	c, _ := contexto("")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	got, ok := paramUUID(c, "id")
	require.True(t, ok)
	assert.Equal(t, id, got)

	c, w := contexto("")
	c.Params = gin.Params{{Key: "id", Value: "123"}}
	_, ok = paramUUID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "id invalido")
}
