package settings

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/repository"
)

// DefaultTTL es la vigencia del cache de configuración de negocio.
const DefaultTTL = 5 * time.Minute

type cachedValue struct {
	value     string
	found     bool
	expiresAt time.Time
}

// Provider sirve la configuración de negocio (permiso de sobreventa, bodega preferida,
// vigencia de reservas) con un cache en memoria delante de la BD. Se construye y se
// inyecta explícitamente; no es un singleton de módulo. Un Set invalida solo la
// entrada de la clave escrita.
type Provider struct {
	repo repository.AppConfigRepository
	ttl  time.Duration

	mu    sync.RWMutex
	cache map[string]cachedValue
}

// NewProvider construye el proveedor con el TTL indicado (0 = DefaultTTL).
func NewProvider(repo repository.AppConfigRepository, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Provider{
		repo:  repo,
		ttl:   ttl,
		cache: make(map[string]cachedValue),
	}
}

// Get devuelve el valor de la clave o def si no existe. Lee del cache si la entrada
// sigue vigente; si no, consulta la BD y refresca la entrada (también cachea la
// ausencia, para no golpear la BD por claves sin configurar).
func (p *Provider) Get(ctx context.Context, key, def string) (string, error) {
	p.mu.RLock()
	entry, ok := p.cache[key]
	p.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		if !entry.found {
			return def, nil
		}
		return entry.value, nil
	}

	cfg, err := p.repo.Get(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	fresh := cachedValue{expiresAt: time.Now().Add(p.ttl)}
	if cfg != nil {
		fresh.value = cfg.Value
		fresh.found = true
	}
	p.mu.Lock()
	p.cache[key] = fresh
	p.mu.Unlock()

	if !fresh.found {
		return def, nil
	}
	return fresh.value, nil
}

// GetBool interpreta el valor como booleano ("true", "1", "yes").
func (p *Provider) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	raw, err := p.Get(ctx, key, "")
	if err != nil {
		return def, err
	}
	if raw == "" {
		return def, nil
	}
	switch raw {
	case "true", "1", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// GetInt interpreta el valor como entero; valores no numéricos devuelven def.
func (p *Provider) GetInt(ctx context.Context, key string, def int) (int, error) {
	raw, err := p.Get(ctx, key, "")
	if err != nil {
		return def, err
	}
	if raw == "" {
		return def, nil
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return def, nil
	}
	return n, nil
}

// Set persiste el valor e invalida la entrada de cache de esa clave (solo esa).
func (p *Provider) Set(ctx context.Context, key, value string) error {
	if err := p.repo.Set(ctx, key, value); err != nil {
		return err
	}
	p.Invalidate(key)
	return nil
}

// Invalidate descarta la entrada de cache de la clave; la próxima lectura va a BD.
func (p *Provider) Invalidate(key string) {
	p.mu.Lock()
	delete(p.cache, key)
	p.mu.Unlock()
}
