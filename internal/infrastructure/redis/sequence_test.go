package redis_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rdsequence "github.com/jhoicas/Distribucion-api/internal/infrastructure/redis"
	"github.com/jhoicas/Distribucion-api/pkg/config"
)

// fakeCounter reproduce EXISTS, SETNX e INCR sobre un mapa.
type fakeCounter struct {
	values map[string]int64
}

func newFakeCounter() *fakeCounter { return &fakeCounter{values: map[string]int64{}} }

func (f *fakeCounter) Exists(_ context.Context, keys ...string) *goredis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func (f *fakeCounter) SetNX(_ context.Context, key string, value any, _ time.Duration) *goredis.BoolCmd {
	if _, ok := f.values[key]; ok {
		return goredis.NewBoolResult(false, nil)
	}
	f.values[key] = value.(int64)
	return goredis.NewBoolResult(true, nil)
}

func (f *fakeCounter) Incr(_ context.Context, key string) *goredis.IntCmd {
	f.values[key]++
	return goredis.NewIntResult(f.values[key], nil)
}

type fixedFloor int64

func (f fixedFloor) MaxSequence(context.Context, string, string) (int64, error) { return int64(f), nil }

func TestSequenceKey(t *testing.T) {
	assert.Equal(t, "distribution:seq:type-n:202601", rdsequence.SequenceKey("type-n", "202601"))
}

func TestSequenceIssuer_LlavePerdidaContinuaDesdeElMaximo(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeCounter()
	issuer := rdsequence.NewSequenceIssuer(rdb, fixedFloor(7))

	n, err := issuer.Next(ctx, "type-n", "202601")
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)

	n, err = issuer.Next(ctx, "type-n", "202601")
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
}

func TestSequenceIssuer_LlaveExistenteNoSeResiembra(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeCounter()
	rdb.values[rdsequence.SequenceKey("type-n", "202601")] = 20
	issuer := rdsequence.NewSequenceIssuer(rdb, fixedFloor(7))

	n, err := issuer.Next(ctx, "type-n", "202601")
	require.NoError(t, err)
	assert.Equal(t, int64(21), n)
}

func TestSequenceIssuer_SinPisoEmpiezaEnUno(t *testing.T) {
	issuer := rdsequence.NewSequenceIssuer(newFakeCounter(), nil)
	n, err := issuer.Next(context.Background(), "type-n", "202602")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNew_SinURLNoConecta(t *testing.T) {
	c, err := rdsequence.New(t.Context(), config.RedisConfig{})
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestNew_URLInvalida(t *testing.T) {
	_, err := rdsequence.New(t.Context(), config.RedisConfig{URL: "http://no-es-redis"})
	assert.Error(t, err)
}
