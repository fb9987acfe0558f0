package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/entity"
	"github.com/crismard/ventapos-api/internal/domain/repository"
)

var _ repository.AppConfigRepository = (*AppConfigRepo)(nil)

// AppConfigRepo persistencia de configuración de negocio (clave/valor).
type AppConfigRepo struct {
	q Querier
}

// NewAppConfigRepository construye el adaptador de configuración. Pasar pool o tx (Querier).
func NewAppConfigRepository(q Querier) *AppConfigRepo {
	return &AppConfigRepo{q: q}
}

// Get obtiene una entrada por clave. Devuelve domain.ErrNotFound si no existe,
// para que el proveedor en memoria pueda cachear también la ausencia.
func (r *AppConfigRepo) Get(ctx context.Context, key string) (*entity.AppConfig, error) {
	query := `SELECT key, value, updated_at FROM app_config WHERE key = $1`
	var c entity.AppConfig
	err := r.q.QueryRow(ctx, query, key).Scan(&c.Key, &c.Value, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get config %s: %w", key, err)
	}
	return &c, nil
}

// Set inserta o actualiza una entrada de configuración.
func (r *AppConfigRepo) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO app_config (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	return nil
}
