package loaders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
)

type mockTableLookup struct {
	mock.Mock
}

func (m *mockTableLookup) GetByIDs(ctx context.Context, ids []string) (map[string]*entities.Table, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*entities.Table), args.Error(1)
}

func TestLoaders_TableNumbersBatches(t *testing.T) {
	lookup := new(mockTableLookup)
	lookup.On("GetByIDs", mock.Anything, mock.MatchedBy(func(ids []string) bool {
		return assert.ElementsMatch(t, []string{"t-1", "t-2", "t-9"}, ids)
	})).Return(map[string]*entities.Table{
		"t-1": {ID: "t-1", Number: 4},
		"t-2": {ID: "t-2", Number: 7},
	}, nil).Once()

	l := NewLoaders(lookup)
	numbers := l.TableNumbers(context.Background(), []string{"t-1", "t-2", "t-1", "t-9"})

	assert.Equal(t, map[string]int{"t-1": 4, "t-2": 7}, numbers)
	lookup.AssertNumberOfCalls(t, "GetByIDs", 1)
}

func TestLoaders_LookupError(t *testing.T) {
	lookup := new(mockTableLookup)
	lookup.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	numbers := NewLoaders(lookup).TableNumbers(context.Background(), []string{"t-1"})
	assert.Empty(t, numbers)
}

func TestMiddleware_AttachesLoaders(t *testing.T) {
	var got *Loaders
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	})

	Middleware(new(mockTableLookup))(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotNil(t, got)
	assert.Nil(t, FromContext(context.Background()))
}
