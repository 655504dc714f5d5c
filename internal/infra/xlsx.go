package infra

import (
	"fmt"
	"io"

	"parqueadero/internal/model"

	"github.com/xuri/excelize/v2"
)

var columnasFacturas = []string{
	"Placa", "Espacio", "Entrada", "Salida", "Minutos",
	"Costo", "Metodo", "Nocturno", "No pagado", "Detalle",
}

// EscribirFacturasXLSX writes one row per invoice to a single-sheet workbook.
func EscribirFacturasXLSX(w io.Writer, fecha string, facturas []model.HistorialFactura) error {
	f := excelize.NewFile()
	defer f.Close()

	hoja := "Facturas " + fecha
	if err := f.SetSheetName("Sheet1", hoja); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	for i, titulo := range columnasFacturas {
		celda, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(hoja, celda, titulo); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
	}
	negrita, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	ultima, _ := excelize.CoordinatesToCellName(len(columnasFacturas), 1)
	if err := f.SetCellStyle(hoja, "A1", ultima, negrita); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	for i, fa := range facturas {
		fila := []interface{}{
			fa.Placa,
			fa.EspacioNumero,
			fa.FechaHoraEntrada.Format("2006-01-02 15:04"),
			fa.FechaHoraSalida.Format("2006-01-02 15:04"),
			fa.TiempoTotalMinutos,
			fa.CostoTotal.InexactFloat64(),
			fa.MetodoPago,
			siNo(fa.EsNocturno),
			siNo(fa.EsNoPagado),
			fa.DetallesCobro,
		}
		celda, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(hoja, celda, &fila); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(hoja, "A", "I", 16)
	_ = f.SetColWidth(hoja, "J", "J", 60)

	return f.Write(w)
}

func siNo(b bool) string {
	if b {
		return "SI"
	}
	return "NO"
}
