package handler

import (
	"net/http"

	"parqueadero/internal/dto"
	"parqueadero/internal/service"

	"github.com/gin-gonic/gin"
)

type VehiculosHandler struct{ svc service.VehiculoService }

func NewVehiculosHandler(svc service.VehiculoService) *VehiculosHandler {
	return &VehiculosHandler{svc: svc}
}

// Espacios godoc
// @Summary Mapa de espacios libres y ocupados
// @Tags vehiculos
// @Produce json
// @Success 200 {object} dto.EspaciosResponse
// @Router /v1/vehiculos/espacios [get]
func (h *VehiculosHandler) Espacios(c *gin.Context) {
	resp, err := h.svc.ObtenerEspacios(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Entrada godoc
// @Summary Registra la entrada de un vehiculo
// @Tags vehiculos
// @Accept json
// @Produce json
// @Param body body dto.EntradaRequest true "Placa y espacio"
// @Success 201 {object} dto.VehiculoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/vehiculos/entrada [post]
func (h *VehiculosHandler) Entrada(c *gin.Context) {
	var req dto.EntradaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarEntrada(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Salida godoc
// @Summary Registra la salida, calcula el cobro y genera la factura
// @Tags vehiculos
// @Accept json
// @Produce json
// @Param body body dto.SalidaRequest true "Placa y forma de pago"
// @Success 200 {object} dto.SalidaResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/vehiculos/salida [post]
func (h *VehiculosHandler) Salida(c *gin.Context) {
	var req dto.SalidaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarSalida(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Buscar godoc
// @Summary Busca un vehiculo activo y muestra el cobro a la fecha
// @Tags vehiculos
// @Produce json
// @Param placa path string true "Placa"
// @Success 200 {object} dto.BusquedaVehiculoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/vehiculos/buscar/{placa} [get]
func (h *VehiculosHandler) Buscar(c *gin.Context) {
	resp, err := h.svc.BuscarVehiculo(c.Request.Context(), c.Param("placa"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial godoc
// @Summary Facturas emitidas, filtrables por fecha y placa
// @Tags vehiculos
// @Produce json
// @Param fecha query string false "AAAA-MM-DD"
// @Param placa query string false "Placa"
// @Param limite query int false "Maximo" default(50)
// @Success 200 {array} dto.FacturaResponse
// @Router /v1/vehiculos/historial [get]
func (h *VehiculosHandler) Historial(c *gin.Context) {
	var filter dto.HistorialFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Historial(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ticket godoc
// @Summary Ticket de entrada en PDF con QR
// @Tags vehiculos
// @Produce application/pdf
// @Param placa path string true "Placa"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/vehiculos/{placa}/ticket [get]
func (h *VehiculosHandler) Ticket(c *gin.Context) {
	placa := c.Param("placa")
	data, err := h.svc.TicketEntradaPDF(c.Request.Context(), placa)
	if err != nil {
		respondError(c, err)
		return
	}
	sendPDF(c, "ticket_"+placa+".pdf", data)
}

// Factura godoc
// @Summary Obtiene una factura
// @Tags vehiculos
// @Produce json
// @Param id path string true "ID de factura"
// @Success 200 {object} dto.FacturaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/vehiculos/facturas/{id} [get]
func (h *VehiculosHandler) Factura(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerFactura(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FacturaPDF godoc
// @Summary Factura en PDF
// @Tags vehiculos
// @Produce application/pdf
// @Param id path string true "ID de factura"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/vehiculos/facturas/{id}/pdf [get]
func (h *VehiculosHandler) FacturaPDF(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	data, err := h.svc.FacturaPDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	sendPDF(c, "factura_"+id.String()+".pdf", data)
}
