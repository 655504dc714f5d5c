package handler

import (
	"net/http"

	"parqueadero/internal/dto"
	"parqueadero/internal/service"

	"github.com/gin-gonic/gin"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Estado godoc
// @Summary Estado de la caja y totales del dia
// @Tags caja
// @Produce json
// @Success 200 {object} dto.CajaEstadoResponse
// @Router /v1/caja/estado [get]
func (h *CajaHandler) Estado(c *gin.Context) {
	resp, err := h.svc.ObtenerEstado(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Abrir godoc
// @Summary Abre una nueva caja
// @Tags caja
// @Accept json
// @Produce json
// @Param body body dto.AbrirCajaRequest true "Datos de apertura"
// @Success 201 {object} dto.CajaResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary Cierra la caja abierta con el conteo final
// @Tags caja
// @Accept json
// @Produce json
// @Param body body dto.CerrarCajaRequest true "Conteo de cierre"
// @Success 200 {object} dto.CajaResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary Resumen de la caja abierta
// @Tags caja
// @Produce json
// @Success 200 {object} dto.ResumenCajaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/resumen [get]
func (h *CajaHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.ObtenerResumen(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movimientos godoc
// @Summary Movimientos de la caja abierta, mas recientes primero
// @Tags caja
// @Produce json
// @Success 200 {object} dto.MovimientosCajaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/movimientos [get]
func (h *CajaHandler) Movimientos(c *gin.Context) {
	resp, err := h.svc.ObtenerMovimientos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarEfectivo godoc
// @Summary Registra un ingreso manual de efectivo
// @Tags caja
// @Accept json
// @Produce json
// @Param body body dto.AgregarEfectivoRequest true "Ingreso"
// @Success 201 {object} dto.MovimientoManualResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/agregar-efectivo [post]
func (h *CajaHandler) AgregarEfectivo(c *gin.Context) {
	var req dto.AgregarEfectivoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarEfectivo(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Egreso godoc
// @Summary Registra un retiro de efectivo
// @Tags caja
// @Accept json
// @Produce json
// @Param body body dto.EgresoRequest true "Egreso"
// @Success 201 {object} dto.EgresoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/egreso [post]
func (h *CajaHandler) Egreso(c *gin.Context) {
	var req dto.EgresoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarEgreso(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Historial godoc
// @Summary Cajas cerradas, mas recientes primero
// @Tags caja
// @Produce json
// @Param limite query int false "Maximo de cajas" default(30)
// @Success 200 {array} dto.CajaResponse
// @Router /v1/caja/historial [get]
func (h *CajaHandler) Historial(c *gin.Context) {
	var filter dto.HistorialCajaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Historial(c.Request.Context(), filter.Limite)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary Obtiene una caja con sus conteos
// @Tags caja
// @Produce json
// @Param id path string true "ID de caja"
// @Success 200 {object} dto.CajaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/{id} [get]
func (h *CajaHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
