package service

import (
	"strings"

	"parqueadero/internal/apierror"
	"parqueadero/internal/dto"
	"parqueadero/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineaVenta is one line of a service sale. Its concrete type is exactly one
// of LineaProducto, LineaBano or LineaHotel.
type LineaVenta interface {
	lineaVenta()
}

// LineaProducto sells Cantidad units of a catalog product and takes them from stock.
type LineaProducto struct {
	ProductoID uuid.UUID
	Cantidad   int
}

// LineaBano charges restroom use per person.
type LineaBano struct {
	Personas int
}

// LineaHotel is a free-amount charge against a hotel room.
type LineaHotel struct {
	Habitacion string
	Monto      decimal.Decimal
}

func (LineaProducto) lineaVenta() {}
func (LineaBano) lineaVenta()     {}
func (LineaHotel) lineaVenta()    {}

// LineaDesdeRequest decodes the wire item into its variant.
func LineaDesdeRequest(it dto.ItemVentaRequest) (LineaVenta, error) {
	switch it.TipoEspecial {
	case "":
		if it.ProductoID == "" {
			return nil, apierror.Validation("producto_id es obligatorio para items de producto")
		}
		id, err := parseID(it.ProductoID, "producto_id")
		if err != nil {
			return nil, err
		}
		if it.Cantidad < 1 {
			return nil, apierror.Validation("la cantidad debe ser al menos 1")
		}
		return LineaProducto{ProductoID: id, Cantidad: it.Cantidad}, nil

	case model.ItemBano:
		personas := it.Personas
		if personas == 0 {
			personas = it.Cantidad
		}
		if personas < 1 {
			return nil, apierror.Validation("el uso de bano requiere al menos 1 persona")
		}
		return LineaBano{Personas: personas}, nil

	case model.ItemHotel:
		hab := strings.TrimSpace(it.Habitacion)
		if hab == "" {
			return nil, apierror.Validation("la habitacion es obligatoria para cargos de hotel")
		}
		if !it.Monto.IsPositive() {
			return nil, apierror.Validation("el monto del cargo de hotel debe ser mayor a cero")
		}
		return LineaHotel{Habitacion: hab, Monto: it.Monto}, nil

	default:
		return nil, apierror.Validation("tipo_especial %q no soportado", it.TipoEspecial)
	}
}
