package repository

import (
	"context"

	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// AppConfigRepository define el puerto de persistencia de la configuración de negocio.
type AppConfigRepository interface {
	Get(ctx context.Context, key string) (*entity.AppConfig, error)
	Set(ctx context.Context, key, value string) error
}
