package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"parqueadero/internal/apierror"
	"parqueadero/internal/dto"
	"parqueadero/internal/model"
	"parqueadero/internal/repository"
	"parqueadero/internal/tarifa"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ConfiguracionService interface {
	ObtenerActiva(ctx context.Context) (*dto.ConfiguracionResponse, error)
	Actualizar(ctx context.Context, req dto.ActualizarConfiguracionRequest) (*dto.ConfiguracionResponse, error)
	ObtenerTarifas(ctx context.Context) (*dto.TarifasResponse, error)
	// Vigente returns the active rate row, creating the defaults on first use.
	Vigente(ctx context.Context) (*model.ConfiguracionPrecios, error)
}

type configuracionService struct {
	repo repository.ConfiguracionRepository
}

func NewConfiguracionService(repo repository.ConfiguracionRepository) ConfiguracionService {
	return &configuracionService{repo: repo}
}

func (s *configuracionService) Vigente(ctx context.Context) (*model.ConfiguracionPrecios, error) {
	cfg, err := s.repo.FindActiva(ctx)
	if err == nil {
		return cfg, nil
	}
	if !esNoEncontrado(err) {
		return nil, err
	}

	cfg = model.ConfiguracionPorDefecto()
	if err := s.repo.Create(ctx, cfg); err != nil {
		// Another request created it first.
		if esDuplicado(err) {
			return s.repo.FindActiva(ctx)
		}
		return nil, err
	}
	return cfg, nil
}

func (s *configuracionService) ObtenerActiva(ctx context.Context) (*dto.ConfiguracionResponse, error) {
	cfg, err := s.Vigente(ctx)
	if err != nil {
		return nil, err
	}
	resp := configuracionToResponse(cfg)
	return &resp, nil
}

// Actualizar applies a partial update. Custom tiers are validated here so a
// stored configuration is always usable by the fee calculator.
func (s *configuracionService) Actualizar(ctx context.Context, req dto.ActualizarConfiguracionRequest) (*dto.ConfiguracionResponse, error) {
	if _, err := s.Vigente(ctx); err != nil {
		return nil, err
	}

	var cfg *model.ConfiguracionPrecios
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		actual, err := repo.FindActiva(ctx)
		if err != nil {
			return err
		}

		precios := []struct {
			campo string
			valor *decimal.Decimal
			dest  *decimal.Decimal
		}{
			{"precio_0_5_min", req.Precio0a5Min, &actual.Precio0a5Min},
			{"precio_6_30_min", req.Precio6a30Min, &actual.Precio6a30Min},
			{"precio_31_60_min", req.Precio31a60Min, &actual.Precio31a60Min},
			{"precio_hora_adicional", req.PrecioHoraAdicional, &actual.PrecioHoraAdicional},
			{"precio_nocturno", req.PrecioNocturno, &actual.PrecioNocturno},
		}
		for _, p := range precios {
			if p.valor == nil {
				continue
			}
			if p.valor.IsNegative() {
				return apierror.Validation("%s no puede ser negativo", p.campo)
			}
			*p.dest = p.valor.Round(2)
		}

		if req.HoraInicioNocturno != nil {
			if _, err := tarifa.ParseHora(*req.HoraInicioNocturno); err != nil {
				return apierror.Validation("hora_inicio_nocturno: %v", err)
			}
			actual.HoraInicioNocturno = *req.HoraInicioNocturno
		}
		if req.HoraFinNocturno != nil {
			if _, err := tarifa.ParseHora(*req.HoraFinNocturno); err != nil {
				return apierror.Validation("hora_fin_nocturno: %v", err)
			}
			actual.HoraFinNocturno = *req.HoraFinNocturno
		}

		if len(req.RangosPersonalizados) > 0 {
			rangos, err := parseRangos(req.RangosPersonalizados)
			if err != nil {
				return err
			}
			actual.RangosPersonalizados = datatypes.JSONSlice[tarifa.Rango](rangos)
		}

		if err := repo.Update(ctx, actual); err != nil {
			return err
		}
		cfg = actual
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := configuracionToResponse(cfg)
	return &resp, nil
}

// parseRangos decodes custom tiers sent either as a JSON array or as a string
// holding one. null, "" and [] clear the tiers.
func parseRangos(raw json.RawMessage) ([]tarifa.Rango, error) {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, apierror.Config("rangos_personalizados invalidos: %v", err)
		}
		if inner == "" {
			return nil, nil
		}
		raw = json.RawMessage(inner)
	}

	var rangos []tarifa.Rango
	if err := json.Unmarshal(raw, &rangos); err != nil {
		return nil, apierror.Config("rangos_personalizados invalidos: %v", err)
	}
	for i, r := range rangos {
		switch {
		case r.MinMinutos < 0:
			return nil, apierror.Config("rango %d: min_minutos no puede ser negativo", i+1)
		case r.MaxMinutos < r.MinMinutos:
			return nil, apierror.Config("rango %d: max_minutos (%d) menor que min_minutos (%d)", i+1, r.MaxMinutos, r.MinMinutos)
		case r.Precio.IsNegative():
			return nil, apierror.Config("rango %d: el precio no puede ser negativo", i+1)
		}
	}
	if len(rangos) == 0 {
		return nil, nil
	}
	return rangos, nil
}

func (s *configuracionService) ObtenerTarifas(ctx context.Context) (*dto.TarifasResponse, error) {
	cfg, err := s.Vigente(ctx)
	if err != nil {
		return nil, err
	}
	lineas := []dto.TarifaLinea{
		{Rango: "0-5 minutos", Precio: cfg.Precio0a5Min},
		{Rango: "6-30 minutos", Precio: cfg.Precio6a30Min},
		{Rango: "31-60 minutos", Precio: cfg.Precio31a60Min},
		{Rango: "Cada 30 minutos adicionales", Precio: cfg.PrecioHoraAdicional.Div(decimal.NewFromInt(2)).Round(2)},
	}
	for _, r := range cfg.RangosPersonalizados {
		lineas = append(lineas, dto.TarifaLinea{Rango: r.Etiqueta(), Precio: r.Precio})
	}
	return &dto.TarifasResponse{
		Tarifas:         lineas,
		PrecioNocturno:  cfg.PrecioNocturno,
		HorarioNocturno: fmt.Sprintf("%s - %s", cfg.HoraInicioNocturno, cfg.HoraFinNocturno),
	}, nil
}
