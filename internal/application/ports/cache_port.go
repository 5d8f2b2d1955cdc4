package ports

import "context"

// ProductCache caché de lectura del detalle de producto.
// Las implementaciones deben tolerar un backend ausente (no-op).
//
// Version se lee antes de consultar la BD; Set solo escribe si ninguna invalidación
// ocurrió desde entonces, así un valor leído antes de un commit no vuelve a la caché.
type ProductCache interface {
	Get(ctx context.Context, productID string, dst any) (bool, error)
	Version(ctx context.Context, productID string) (int64, error)
	Set(ctx context.Context, productID string, version int64, v any) error
	Invalidate(ctx context.Context, productIDs ...string) error
}

// NopProductCache caché deshabilitada: nunca hay acierto.
type NopProductCache struct{}

func (NopProductCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopProductCache) Version(context.Context, string) (int64, error) { return 0, nil }
func (NopProductCache) Set(context.Context, string, int64, any) error  { return nil }
func (NopProductCache) Invalidate(context.Context, ...string) error    { return nil }
