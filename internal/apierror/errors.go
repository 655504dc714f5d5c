package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// Sentinel kinds. Use with errors.Is().
var (
	ErrValidation        = errors.New("validacion")
	ErrState             = errors.New("estado invalido")
	ErrConflict          = errors.New("conflicto")
	ErrInsufficientFunds = errors.New("fondos insuficientes")
	ErrNotFound          = errors.New("no encontrado")
	ErrConfig            = errors.New("configuracion invalida")
)

// Error is a domain error whose message is safe to show to the operator.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error { return newf(ErrValidation, format, args...) }
func State(format string, args ...any) error      { return newf(ErrState, format, args...) }
func Conflict(format string, args ...any) error   { return newf(ErrConflict, format, args...) }
func NotFound(format string, args ...any) error   { return newf(ErrNotFound, format, args...) }
func Config(format string, args ...any) error     { return newf(ErrConfig, format, args...) }

// InsufficientFundsError is returned when a withdrawal exceeds the cash in the drawer.
type InsufficientFundsError struct {
	Disponible decimal.Decimal
	Solicitado decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("fondos insuficientes en caja, disponible: $%s", e.Disponible.StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// HTTPStatus maps a service error onto the response status code.
// Unknown errors are internal: the caller must not echo their message.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfig):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrState), errors.Is(err, ErrConflict), errors.Is(err, ErrInsufficientFunds):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
