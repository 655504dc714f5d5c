package service

import (
	"context"
	"strings"

	"parqueadero/internal/apierror"
	"parqueadero/internal/dto"
	"parqueadero/internal/model"
	"parqueadero/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoService defines the business logic contract for catalog products.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error)
	ListarMovimientos(ctx context.Context, id uuid.UUID, limite int) ([]dto.MovimientoStockResponse, error)
}

type productoService struct {
	repo        repository.ProductoRepository
	movimientos repository.MovimientoStockRepository
}

func NewProductoService(repo repository.ProductoRepository, movimientos repository.MovimientoStockRepository) ProductoService {
	return &productoService{repo: repo, movimientos: movimientos}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, apierror.Validation("el nombre es obligatorio")
	}
	if req.Precio.IsNegative() {
		return nil, apierror.Validation("el precio no puede ser negativo")
	}
	if req.Stock < 0 {
		return nil, apierror.Validation("el stock no puede ser negativo")
	}
	categoria := strings.TrimSpace(strings.ToLower(req.Categoria))
	if categoria == "" {
		categoria = "general"
	}

	p := &model.Producto{
		Nombre:    nombre,
		Categoria: categoria,
		Precio:    req.Precio.Round(2),
		Stock:     req.Stock,
		Activo:    true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) buscar(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	p, err := s.repo.FindByID(ctx, id)
	if esNoEncontrado(err) {
		return nil, apierror.NotFound("producto %s no encontrado", id)
	}
	return p, err
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		out = append(out, productoToResponse(&productos[i]))
	}
	return out, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre != nil {
		nombre := strings.TrimSpace(*req.Nombre)
		if nombre == "" {
			return nil, apierror.Validation("el nombre es obligatorio")
		}
		p.Nombre = nombre
	}
	if req.Categoria != nil {
		p.Categoria = strings.TrimSpace(strings.ToLower(*req.Categoria))
	}
	if req.Precio != nil {
		if req.Precio.IsNegative() {
			return nil, apierror.Validation("el precio no puede ser negativo")
		}
		p.Precio = req.Precio.Round(2)
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.buscar(ctx, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

// AjustarStock applies a manual correction and records it as a stock movement.
func (s *productoService) AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error) {
	if req.Delta == 0 {
		return nil, apierror.Validation("el ajuste no puede ser cero")
	}
	var producto *model.Producto
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		p, err := repo.LockByID(ctx, id)
		if esNoEncontrado(err) {
			return apierror.NotFound("producto %s no encontrado", id)
		}
		if err != nil {
			return err
		}
		nuevo := p.Stock + req.Delta
		if nuevo < 0 {
			return apierror.Validation("el ajuste deja el stock en negativo (actual %d)", p.Stock)
		}
		if err := repo.SetStock(ctx, p.ID, nuevo); err != nil {
			return err
		}
		if err := s.movimientos.WithTx(tx).Create(ctx, &model.MovimientoStock{
			ProductoID:    p.ID,
			Tipo:          "ajuste_manual",
			Cantidad:      req.Delta,
			StockAnterior: p.Stock,
			StockNuevo:    nuevo,
			Motivo:        req.Motivo,
		}); err != nil {
			return err
		}
		p.Stock = nuevo
		producto = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := productoToResponse(producto)
	return &resp, nil
}

func (s *productoService) ListarMovimientos(ctx context.Context, id uuid.UUID, limite int) ([]dto.MovimientoStockResponse, error) {
	if _, err := s.buscar(ctx, id); err != nil {
		return nil, err
	}
	if limite <= 0 {
		limite = 50
	}
	movs, err := s.movimientos.ListPorProducto(ctx, id, limite)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimientoStockResponse, 0, len(movs))
	for i := range movs {
		out = append(out, movimientoStockToResponse(&movs[i]))
	}
	return out, nil
}
