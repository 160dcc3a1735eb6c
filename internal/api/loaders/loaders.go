package loaders

import (
	"context"
	"net/http"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	apperrors "github.com/guiomkt/cheff-guio-sub000/pkg/errors"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// TableLookup fetches several tables in one call
type TableLookup interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]*entities.Table, error)
}

// Loaders holds the request-scoped dataloaders
type Loaders struct {
	TableLoader *dataloader.Loader[string, *entities.Table]
}

// NewLoaders creates fresh loaders. They cache per instance, so build one set
// per request.
func NewLoaders(tables TableLookup) *Loaders {
	return &Loaders{
		TableLoader: dataloader.NewBatchedLoader(
			func(ctx context.Context, keys []string) []*dataloader.Result[*entities.Table] {
				results := make([]*dataloader.Result[*entities.Table], len(keys))
				found, err := tables.GetByIDs(ctx, keys)

				for i, key := range keys {
					switch t, ok := found[key]; {
					case err != nil:
						results[i] = &dataloader.Result[*entities.Table]{Error: err}
					case ok:
						results[i] = &dataloader.Result[*entities.Table]{Data: t}
					default:
						results[i] = &dataloader.Result[*entities.Table]{Error: apperrors.NewNotFoundError("table " + key + " not found")}
					}
				}
				return results
			},
			dataloader.WithWait[string, *entities.Table](2*time.Millisecond),
		),
	}
}

// Middleware attaches a new set of loaders to every request
func Middleware(tables TableLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), NewLoaders(tables))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the loaders attached to ctx, or nil
func FromContext(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}

// TableNumbers resolves table numbers for the given IDs in one batch.
// Unknown IDs are left out of the result.
func (l *Loaders) TableNumbers(ctx context.Context, ids []string) map[string]int {
	thunks := make(map[string]dataloader.Thunk[*entities.Table], len(ids))
	for _, id := range ids {
		if _, ok := thunks[id]; !ok {
			thunks[id] = l.TableLoader.Load(ctx, id)
		}
	}

	numbers := make(map[string]int, len(thunks))
	for id, thunk := range thunks {
		if t, err := thunk(); err == nil && t != nil {
			numbers[id] = t.Number
		}
	}
	return numbers
}
