package infra

// pdf.go builds the thermal-receipt PDFs with go-pdf/fpdf:
//   - invoice of a finished stay
//   - entry ticket with a QR of the stay id
//   - drawer close summary, written to disk so it can be emailed

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"parqueadero/internal/model"
	"parqueadero/internal/tarifa"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	ticketAncho  = 80.0 // mm, thermal roll
	ticketMargen = 4.0
)

// recibo wraps an fpdf document laid out as a receipt.
type recibo struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	ancho float64
}

func nuevoRecibo(alto float64) *recibo {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: ticketAncho, Ht: alto},
	})
	pdf.SetMargins(ticketMargen, ticketMargen, ticketMargen)
	pdf.SetAutoPageBreak(true, ticketMargen)
	pdf.AddPage()
	return &recibo{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		ancho: ticketAncho - 2*ticketMargen,
	}
}

func (r *recibo) encabezado(negocio, titulo string) {
	r.pdf.SetFont("Helvetica", "B", 13)
	r.pdf.CellFormat(r.ancho, 7, r.tr(negocio), "", 1, "C", false, 0, "")
	r.pdf.SetFont("Helvetica", "", 8)
	r.pdf.CellFormat(r.ancho, 5, r.tr(titulo), "", 1, "C", false, 0, "")
	r.separador()
}

func (r *recibo) separador() {
	r.pdf.Ln(1)
	y := r.pdf.GetY()
	r.pdf.Line(ticketMargen, y, ticketAncho-ticketMargen, y)
	r.pdf.Ln(2)
}

// fila prints a label on the left and a value right-aligned.
func (r *recibo) fila(etiqueta, valor string) {
	r.pdf.SetFont("Helvetica", "", 8)
	r.pdf.CellFormat(r.ancho*0.55, 5, r.tr(etiqueta), "", 0, "L", false, 0, "")
	r.pdf.CellFormat(r.ancho*0.45, 5, r.tr(valor), "", 1, "R", false, 0, "")
}

func (r *recibo) total(etiqueta string, monto decimal.Decimal) {
	r.pdf.SetFont("Helvetica", "B", 10)
	r.pdf.CellFormat(r.ancho*0.55, 7, r.tr(etiqueta), "", 0, "L", false, 0, "")
	r.pdf.CellFormat(r.ancho*0.45, 7, dinero(monto), "", 1, "R", false, 0, "")
}

func (r *recibo) texto(s string) {
	r.pdf.SetFont("Helvetica", "", 7)
	r.pdf.MultiCell(r.ancho, 4, r.tr(s), "", "L", false)
}

func (r *recibo) pie(s string) {
	r.pdf.Ln(2)
	r.pdf.SetFont("Helvetica", "I", 7)
	r.pdf.CellFormat(r.ancho, 4, r.tr(s), "", 1, "C", false, 0, "")
}

func dinero(d decimal.Decimal) string { return "$" + d.StringFixed(2) }

func fechaHora(t time.Time) string { return t.Format("02/01/2006 15:04") }

// EscribirFacturaPDF writes the invoice of a finished stay to w.
func EscribirFacturaPDF(w io.Writer, negocio string, f *model.HistorialFactura) error {
	r := nuevoRecibo(140)
	r.encabezado(negocio, "Factura de Parqueo")

	r.fila("Factura", f.ID.String()[:8])
	r.fila("Placa", f.Placa)
	r.fila("Espacio", fmt.Sprintf("%d", f.EspacioNumero))
	r.fila("Entrada", fechaHora(f.FechaHoraEntrada))
	r.fila("Salida", fechaHora(f.FechaHoraSalida))
	r.fila("Tiempo", tarifa.FormatearTiempo(f.TiempoTotalMinutos))
	if f.EsNocturno {
		r.fila("Tarifa", "Nocturna")
	}
	r.separador()

	r.texto(f.DetallesCobro)
	r.separador()

	if f.EsNoPagado {
		r.total("NO PAGADO", decimal.Zero)
	} else {
		r.total("TOTAL", f.CostoTotal)
		r.fila("Pago", f.MetodoPago)
	}
	r.pie("Gracias por su visita")

	if err := r.pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: factura %s: %w", f.ID, err)
	}
	return nil
}

// EscribirTicketEntradaPDF writes the entry ticket of an active stay to w.
// The QR carries the stay id so the exit desk can scan it.
func EscribirTicketEntradaPDF(w io.Writer, negocio string, v *model.VehiculoEstacionado) error {
	png, err := qrcode.Encode(v.ID.String(), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("pdf: qr ticket %s: %w", v.ID, err)
	}

	r := nuevoRecibo(130)
	r.encabezado(negocio, "Ticket de Entrada")

	r.fila("Placa", v.Placa)
	r.fila("Espacio", fmt.Sprintf("%d", v.EspacioNumero))
	r.fila("Entrada", fechaHora(v.FechaHoraEntrada))
	if v.EsNocturno {
		r.fila("Tarifa", "Nocturna")
	}
	r.separador()

	const lado = 40.0
	nombre := "qr-" + v.ID.String()
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	r.pdf.RegisterImageOptionsReader(nombre, opts, bytes.NewReader(png))
	r.pdf.ImageOptions(nombre, (ticketAncho-lado)/2, r.pdf.GetY(), lado, lado, false, opts, 0, "")
	r.pdf.SetY(r.pdf.GetY() + lado + 2)

	r.pie("Conserve este ticket hasta su salida")

	if err := r.pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: ticket %s: %w", v.ID, err)
	}
	return nil
}

// GenerarCierreCajaPDF writes the close summary of a drawer under storagePath
// and returns the file path.
func GenerarCierreCajaPDF(c *model.Caja, negocio, storagePath string) (string, error) {
	if c.FechaCierre == nil || c.MontoFinal == nil {
		return "", fmt.Errorf("pdf: caja %s no esta cerrada", c.ID)
	}
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	r := nuevoRecibo(180)
	r.encabezado(negocio, "Cierre de Caja")

	r.fila("Caja", c.ID.String()[:8])
	r.fila("Apertura", fechaHora(c.FechaApertura))
	r.fila("Abierta por", c.OperadorApertura)
	r.fila("Cierre", fechaHora(*c.FechaCierre))
	if c.OperadorCierre != nil {
		r.fila("Cerrada por", *c.OperadorCierre)
	}
	r.separador()

	r.fila("Monto inicial", dinero(c.MontoInicial))
	r.fila("Parqueo (efectivo)", dinero(c.TotalParqueo))
	r.fila("Servicios (efectivo)", dinero(c.TotalServicios))
	r.fila("Ingresos manuales", dinero(c.TotalManuales))
	r.fila("Egresos", "-"+dinero(c.TotalEgresos))
	r.separador()

	if c.MontoEsperado != nil {
		r.fila("Esperado", dinero(*c.MontoEsperado))
	}
	r.fila("Contado", dinero(*c.MontoFinal))
	if c.Diferencia != nil {
		r.total("DIFERENCIA", *c.Diferencia)
	}

	var conteo []model.DenominacionCaja
	for _, d := range c.Denominaciones {
		if d.TipoConteo == model.ConteoCierre {
			conteo = append(conteo, d)
		}
	}
	if len(conteo) > 0 {
		r.separador()
		for _, d := range conteo {
			r.fila(fmt.Sprintf("%s x %d", dinero(d.Denominacion), d.Cantidad), dinero(d.Subtotal))
		}
	}
	if c.NotasCierre != nil && *c.NotasCierre != "" {
		r.separador()
		r.texto(*c.NotasCierre)
	}

	ruta := filepath.Join(storagePath, fmt.Sprintf("cierre_caja_%s.pdf", c.ID))
	if err := r.pdf.OutputFileAndClose(ruta); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return ruta, nil
}
