package settings_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crismard/ventapos-api/internal/application/settings"
	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// countingConfigRepo registra cuántas veces se golpea la "BD" por clave.
type countingConfigRepo struct {
	values map[string]string
	hits   map[string]int
}

func newCountingConfigRepo(values map[string]string) *countingConfigRepo {
	if values == nil {
		values = make(map[string]string)
	}
	return &countingConfigRepo{values: values, hits: make(map[string]int)}
}

func (r *countingConfigRepo) Get(_ context.Context, key string) (*entity.AppConfig, error) {
	r.hits[key]++
	v, ok := r.values[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entity.AppConfig{Key: key, Value: v}, nil
}

func (r *countingConfigRepo) Set(_ context.Context, key, value string) error {
	r.values[key] = value
	return nil
}

func TestProvider_CacheaLecturas(t *testing.T) {
	repo := newCountingConfigRepo(map[string]string{"allow_oversell": "true"})
	provider := settings.NewProvider(repo, time.Minute)
	ctx := context.Background()

	for range [5]int{} {
		v, err := provider.Get(ctx, "allow_oversell", "false")
		require.NoError(t, err)
		assert.Equal(t, "true", v)
	}
	assert.Equal(t, 1, repo.hits["allow_oversell"], "una sola ida a BD dentro del TTL")
}

func TestProvider_CacheaLaAusencia(t *testing.T) {
	repo := newCountingConfigRepo(nil)
	provider := settings.NewProvider(repo, time.Minute)
	ctx := context.Background()

	for range [3]int{} {
		v, err := provider.Get(ctx, "clave_sin_configurar", "defecto")
		require.NoError(t, err)
		assert.Equal(t, "defecto", v)
	}
	assert.Equal(t, 1, repo.hits["clave_sin_configurar"], "la ausencia también se cachea")
}

func TestProvider_SetInvalidaSoloEsaClave(t *testing.T) {
	repo := newCountingConfigRepo(map[string]string{"a": "1", "b": "2"})
	provider := settings.NewProvider(repo, time.Minute)
	ctx := context.Background()

	_, err := provider.Get(ctx, "a", "")
	require.NoError(t, err)
	_, err = provider.Get(ctx, "b", "")
	require.NoError(t, err)

	require.NoError(t, provider.Set(ctx, "a", "10"))

	v, err := provider.Get(ctx, "a", "")
	require.NoError(t, err)
	assert.Equal(t, "10", v)
	assert.Equal(t, 2, repo.hits["a"], "a se relee tras el Set")

	_, err = provider.Get(ctx, "b", "")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.hits["b"], "b sigue cacheada")
}

func TestProvider_GetBoolYGetInt(t *testing.T) {
	repo := newCountingConfigRepo(map[string]string{
		"flag_true":  "yes",
		"flag_false": "no",
		"minutos":    "45",
		"basura":     "cuarenta",
	})
	provider := settings.NewProvider(repo, time.Minute)
	ctx := context.Background()

	b, err := provider.GetBool(ctx, "flag_true", false)
	require.NoError(t, err)
	assert.True(t, b)

	b, err = provider.GetBool(ctx, "flag_false", true)
	require.NoError(t, err)
	assert.False(t, b)

	b, err = provider.GetBool(ctx, "flag_inexistente", true)
	require.NoError(t, err)
	assert.True(t, b, "sin valor configurado gana el defecto")

	n, err := provider.GetInt(ctx, "minutos", 15)
	require.NoError(t, err)
	assert.Equal(t, 45, n)

	n, err = provider.GetInt(ctx, "basura", 15)
	require.NoError(t, err)
	assert.Equal(t, 15, n, "valor no numérico cae al defecto")
}
