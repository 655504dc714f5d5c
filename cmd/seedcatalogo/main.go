// cmd/seedcatalogo/main.go: crea la configuracion de precios por defecto y
// un catalogo inicial de productos. Idempotente: omite lo que ya existe.
// Uso: go run ./cmd/seedcatalogo
package main

import (
	"context"
	"errors"

	"parqueadero/internal/config"
	"parqueadero/internal/infra"
	"parqueadero/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var catalogo = []model.Producto{
	{Nombre: "Agua 500ml", Categoria: "bebidas", Precio: decimal.RequireFromString("0.75"), Stock: 48},
	{Nombre: "Gaseosa 500ml", Categoria: "bebidas", Precio: decimal.RequireFromString("1.00"), Stock: 48},
	{Nombre: "Cafe", Categoria: "bebidas", Precio: decimal.RequireFromString("1.25"), Stock: 100},
	{Nombre: "Papas fritas", Categoria: "snacks", Precio: decimal.RequireFromString("0.80"), Stock: 30},
	{Nombre: "Galletas", Categoria: "snacks", Precio: decimal.RequireFromString("0.50"), Stock: 30},
	{Nombre: "Cepillo dental", Categoria: "aseo", Precio: decimal.RequireFromString("1.50"), Stock: 20},
	{Nombre: "Toalla", Categoria: "aseo", Precio: decimal.RequireFromString("3.00"), Stock: 10},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}
	ctx := context.Background()

	var activa model.ConfiguracionPrecios
	err = db.WithContext(ctx).Where("activa = ?", true).First(&activa).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		def := model.ConfiguracionPorDefecto()
		if err := db.WithContext(ctx).Create(def).Error; err != nil {
			log.Fatal().Err(err).Msg("insert configuracion")
		}
		log.Info().Msg("configuracion de precios por defecto creada")
	case err != nil:
		log.Fatal().Err(err).Msg("read configuracion")
	default:
		log.Info().Msg("configuracion de precios ya existe, se omite")
	}

	creados := 0
	for _, p := range catalogo {
		p := p
		p.Activo = true
		res := db.WithContext(ctx).Where("nombre = ?", p.Nombre).FirstOrCreate(&p)
		if res.Error != nil {
			log.Fatal().Err(res.Error).Str("producto", p.Nombre).Msg("insert producto")
		}
		creados += int(res.RowsAffected)
	}
	log.Info().Int("creados", creados).Int("catalogo", len(catalogo)).Msg("catalogo listo")
}
