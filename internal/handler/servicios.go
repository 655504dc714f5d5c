package handler

import (
	"net/http"

	"parqueadero/internal/dto"
	"parqueadero/internal/service"

	"github.com/gin-gonic/gin"
)

type ServiciosHandler struct{ svc service.VentaServicioService }

func NewServiciosHandler(svc service.VentaServicioService) *ServiciosHandler {
	return &ServiciosHandler{svc: svc}
}

// CrearVenta godoc
// @Summary Registra una venta de servicios (productos, bano, hotel)
// @Tags servicios
// @Accept json
// @Produce json
// @Param body body dto.CrearVentaServicioRequest true "Items y forma de pago"
// @Success 201 {object} dto.VentaServicioResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/servicios/ventas [post]
func (h *ServiciosHandler) CrearVenta(c *gin.Context) {
	var req dto.CrearVentaServicioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearVenta(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ServiciosHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaServicioFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarVentas(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServiciosHandler) ObtenerVenta(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServiciosHandler) ReporteDiario(c *gin.Context) {
	var filter dto.ReporteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ReporteDiario(c.Request.Context(), filter.Fecha)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
