package handler

import (
	"net/http"

	"parqueadero/internal/dto"
	"parqueadero/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfiguracionHandler struct{ svc service.ConfiguracionService }

func NewConfiguracionHandler(svc service.ConfiguracionService) *ConfiguracionHandler {
	return &ConfiguracionHandler{svc: svc}
}

// Obtener godoc
// @Summary Configuracion de precios activa
// @Tags configuracion
// @Produce json
// @Success 200 {object} dto.ConfiguracionResponse
// @Router /v1/configuracion [get]
func (h *ConfiguracionHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.ObtenerActiva(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Actualiza precios, horario nocturno y rangos personalizados
// @Tags configuracion
// @Accept json
// @Produce json
// @Param body body dto.ActualizarConfiguracionRequest true "Campos a modificar"
// @Success 200 {object} dto.ConfiguracionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/configuracion [put]
func (h *ConfiguracionHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarConfiguracionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Tarifas godoc
// @Summary Tabla de tarifas legible para mostrar al cliente
// @Tags configuracion
// @Produce json
// @Success 200 {object} dto.TarifasResponse
// @Router /v1/configuracion/tarifas [get]
func (h *ConfiguracionHandler) Tarifas(c *gin.Context) {
	resp, err := h.svc.ObtenerTarifas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
