package handler

import (
	"bytes"
	"net/http"
	"time"

	"parqueadero/internal/dto"
	"parqueadero/internal/service"

	"github.com/gin-gonic/gin"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// Diario godoc
// @Summary Reporte diario de parqueo
// @Tags reportes
// @Produce json
// @Param fecha query string false "AAAA-MM-DD, hoy por defecto"
// @Success 200 {object} dto.ReporteDiarioResponse
// @Router /v1/reportes/diario [get]
func (h *ReportesHandler) Diario(c *gin.Context) {
	var filter dto.ReporteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Diario(c.Request.Context(), filter.Fecha)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Detallado godoc
// @Summary Horas pico, espacios mas usados y distribucion de tiempos
// @Tags reportes
// @Produce json
// @Param fecha query string false "AAAA-MM-DD, hoy por defecto"
// @Success 200 {object} dto.ReporteDetalladoResponse
// @Router /v1/reportes/detallado [get]
func (h *ReportesHandler) Detallado(c *gin.Context) {
	var filter dto.ReporteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Detallado(c.Request.Context(), filter.Fecha)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// NoPagados godoc
// @Summary Vehiculos que salieron sin pagar y perdida estimada
// @Tags reportes
// @Produce json
// @Param fecha query string false "AAAA-MM-DD, hoy por defecto"
// @Success 200 {object} dto.ReporteNoPagadosResponse
// @Router /v1/reportes/no-pagados [get]
func (h *ReportesHandler) NoPagados(c *gin.Context) {
	var filter dto.ReporteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.NoPagados(c.Request.Context(), filter.Fecha)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FacturasXLSX godoc
// @Summary Exporta las facturas del dia a Excel
// @Tags reportes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param fecha query string false "AAAA-MM-DD, hoy por defecto"
// @Success 200 {file} binary
// @Router /v1/reportes/facturas.xlsx [get]
func (h *ReportesHandler) FacturasXLSX(c *gin.Context) {
	var filter dto.ReporteFilter
	if !bindQuery(c, &filter) {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.ExportarFacturas(c.Request.Context(), filter.Fecha, &buf); err != nil {
		respondError(c, err)
		return
	}
	fecha := filter.Fecha
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	}
	c.Header("Content-Disposition", `attachment; filename="facturas_`+fecha+`.xlsx"`)
	c.Data(http.StatusOK, mimeXLSX, buf.Bytes())
}
