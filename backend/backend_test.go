package backend

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oasgate/oasgate/mock"
	"github.com/oasgate/oasgate/router"
	"github.com/oasgate/oasgate/spec"
)

const backendDoc = `
openapi: 3.1.0
info:
  title: Dispatch fixtures
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
            maximum: 100
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  type: object
  /pets/{id}:
    get:
      operationId: getPetById
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: integer
      responses:
        "200":
          description: ok
          content:
            application/json:
              example:
                id: 1
                name: Garfield
  /orphan:
    get:
      responses:
        "200":
          description: ok
`

func loadDoc(t *testing.T) *spec.Document {
	t.Helper()
	doc, err := spec.Load([]byte(backendDoc))
	require.NoError(t, err)
	return doc
}

func newBackend(t *testing.T, opts ...Option) *Backend {
	t.Helper()
	b := New(append([]Option{WithDocument(loadDoc(t))}, opts...)...)
	require.NoError(t, b.Init(context.Background()))
	return b
}

func TestInitRequiresDocument(t *testing.T) {
	b := New()
	err := b.Init(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no document configured")
}

func TestInitRunsOnce(t *testing.T) {
	b := newBackend(t)
	table := b.Router().Table()
	require.NoError(t, b.Init(context.Background()))
	assert.Same(t, table, b.Router().Table())
}

func TestLazyInitOnHandleRequest(t *testing.T) {
	b := New(WithDocument(loadDoc(t)))
	require.NoError(t, b.RegisterHandler("listPets", func(_ context.Context, _ ...any) (any, error) {
		return "pets", nil
	}))

	resp, err := b.HandleRequest(context.Background(), &router.Request{Method: "GET", Path: "/pets"})
	require.NoError(t, err)
	assert.Equal(t, "pets", resp)
	assert.NotNil(t, b.Router())
}

func TestDispatchPassesContextAndArgs(t *testing.T) {
	b := newBackend(t)
	var got *Context
	var extras []any
	require.NoError(t, b.RegisterHandler("getPetById", func(_ context.Context, args ...any) (any, error) {
		var ok bool
		got, ok = args[0].(*Context)
		require.True(t, ok)
		extras = args[1:]
		return map[string]any{"id": 42}, nil
	}))

	resp, err := b.HandleRequest(context.Background(),
		&router.Request{Method: "GET", Path: "/pets/42"}, "first", 2)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": 42}, resp)

	require.NotNil(t, got)
	assert.Equal(t, "getPetById", got.Operation.ID)
	assert.Equal(t, int64(42), got.Parsed.PathParams["id"])
	assert.True(t, got.Gated)
	assert.True(t, got.Validation.Valid)
	assert.Equal(t, []any{"first", 2}, extras)
}

func TestDispatchWithoutPassContext(t *testing.T) {
	b := newBackend(t, WithPassContext(false))
	require.NoError(t, b.RegisterHandler("listPets", func(_ context.Context, args ...any) (any, error) {
		return args, nil
	}))

	resp, err := b.HandleRequest(context.Background(),
		&router.Request{Method: "GET", Path: "/pets"}, "only")
	require.NoError(t, err)
	assert.Equal(t, []any{"only"}, resp)
}

func TestNotFoundFallback(t *testing.T) {
	b := newBackend(t)
	require.NoError(t, b.RegisterHandler(HandlerNotFound, func(_ context.Context, args ...any) (any, error) {
		c := args[0].(*Context)
		assert.Nil(t, c.Operation)
		return "missing", nil
	}))

	t.Run("unknown path", func(t *testing.T) {
		resp, err := b.HandleRequest(context.Background(), &router.Request{Method: "GET", Path: "/nope"})
		require.NoError(t, err)
		assert.Equal(t, "missing", resp)
	})

	t.Run("undeclared method folds to notFound", func(t *testing.T) {
		resp, err := b.HandleRequest(context.Background(), &router.Request{Method: "DELETE", Path: "/pets"})
		require.NoError(t, err)
		assert.Equal(t, "missing", resp)
	})
}

func TestNotFoundWithoutFallback(t *testing.T) {
	b := newBackend(t)
	_, err := b.HandleRequest(context.Background(), &router.Request{Method: "GET", Path: "/nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotHandled)

	var dispatchErr *DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, HandlerNotFound, dispatchErr.Outcome)
	assert.Equal(t, "/nope", dispatchErr.Path)
}

func TestNotImplementedFallbackServesMock(t *testing.T) {
	b := newBackend(t)
	require.NoError(t, b.RegisterHandler(HandlerNotImplemented, func(_ context.Context, args ...any) (any, error) {
		c := args[0].(*Context)
		return c.Mock(mock.Options{})
	}))

	resp, err := b.HandleRequest(context.Background(), &router.Request{Method: "GET", Path: "/pets/1"})
	require.NoError(t, err)
	mocked, ok := resp.(*mock.Response)
	require.True(t, ok)
	assert.Equal(t, 200, mocked.Status)
	payload, ok := mocked.Mock.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Garfield", payload["name"])
}

func TestNotImplementedWithoutFallback(t *testing.T) {
	b := newBackend(t)
	_, err := b.HandleRequest(context.Background(), &router.Request{Method: "GET", Path: "/pets/1"})
	require.Error(t, err)

	var dispatchErr *DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, HandlerNotImplemented, dispatchErr.Outcome)
	assert.Equal(t, "getPetById", dispatchErr.OperationID)
}

func TestValidationFailHandler(t *testing.T) {
	b := newBackend(t)
	require.NoError(t, b.RegisterHandler("listPets", func(_ context.Context, _ ...any) (any, error) {
		t.Fatal("operation handler must not run when validationFail is registered")
		return nil, nil
	}))
	require.NoError(t, b.RegisterHandler(HandlerValidationFail, func(_ context.Context, args ...any) (any, error) {
		c := args[0].(*Context)
		assert.False(t, c.Validation.Valid)
		assert.NotEmpty(t, c.Validation.Errors)
		return "rejected", nil
	}))

	resp, err := b.HandleRequest(context.Background(), &router.Request{
		Method: "GET", Path: "/pets", RawQuery: "limit=500",
	})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp)
}

func TestValidationAdvisoryWithoutFailHandler(t *testing.T) {
	b := newBackend(t)
	var seen *Context
	require.NoError(t, b.RegisterHandler("listPets", func(_ context.Context, args ...any) (any, error) {
		seen = args[0].(*Context)
		return "served", nil
	}))

	resp, err := b.HandleRequest(context.Background(), &router.Request{
		Method: "GET", Path: "/pets", RawQuery: "limit=500",
	})
	require.NoError(t, err)
	assert.Equal(t, "served", resp)
	require.NotNil(t, seen)
	assert.True(t, seen.Gated)
	assert.False(t, seen.Validation.Valid)
}

func TestValidationGateDisabled(t *testing.T) {
	b := newBackend(t, WithValidateRequests(false))
	var seen *Context
	require.NoError(t, b.RegisterHandler("listPets", func(_ context.Context, args ...any) (any, error) {
		seen = args[0].(*Context)
		return nil, nil
	}))

	_, err := b.HandleRequest(context.Background(), &router.Request{
		Method: "GET", Path: "/pets", RawQuery: "limit=500",
	})
	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.False(t, seen.Gated)
}

func TestValidationPredicate(t *testing.T) {
	gate := false
	b := newBackend(t, WithValidationPredicate(func(*Context) bool { return gate }))
	var seen *Context
	require.NoError(t, b.RegisterHandler("listPets", func(_ context.Context, args ...any) (any, error) {
		seen = args[0].(*Context)
		return nil, nil
	}))

	req := &router.Request{Method: "GET", Path: "/pets", RawQuery: "limit=500"}

	_, err := b.HandleRequest(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, seen.Gated)

	gate = true
	_, err = b.HandleRequest(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, seen.Gated)
	assert.False(t, seen.Validation.Valid)
}

func TestPostResponseHandler(t *testing.T) {
	b := newBackend(t)
	require.NoError(t, b.RegisterHandler("listPets", func(_ context.Context, _ ...any) (any, error) {
		return []string{"garfield"}, nil
	}))
	require.NoError(t, b.RegisterHandler(HandlerPostResponse, func(_ context.Context, args ...any) (any, error) {
		c := args[0].(*Context)
		assert.Equal(t, []string{"garfield"}, c.Response)
		return map[string]any{"wrapped": c.Response}, nil
	}))

	resp, err := b.HandleRequest(context.Background(), &router.Request{Method: "GET", Path: "/pets"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"wrapped": []string{"garfield"}}, resp)
}

func TestRegisterNilHandler(t *testing.T) {
	b := newBackend(t)
	err := b.RegisterHandler("listPets", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNilHandler)
}

func TestRegisterUnknownOperation(t *testing.T) {
	handler := func(_ context.Context, _ ...any) (any, error) { return nil, nil }

	t.Run("lenient warns and registers", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.RegisterHandler("noSuchOp", handler))
		_, ok := b.Handler("noSuchOp")
		assert.True(t, ok)
	})

	t.Run("strict rejects", func(t *testing.T) {
		b := newBackend(t, WithStrictMode(true))
		err := b.RegisterHandler("noSuchOp", handler)
		require.Error(t, err)
		assert.ErrorIs(t, err, router.ErrUnknownOperation)
	})
}

func TestRegisterHandlersBeforeInit(t *testing.T) {
	called := false
	b := New(
		WithDocument(loadDoc(t)),
		WithHandlers(map[string]HandlerFunc{
			"listPets": func(_ context.Context, _ ...any) (any, error) {
				called = true
				return nil, nil
			},
		}),
	)
	require.NoError(t, b.Init(context.Background()))

	_, err := b.HandleRequest(context.Background(), &router.Request{Method: "GET", Path: "/pets"})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestConcurrentFirstRequests(t *testing.T) {
	b := New(WithDocument(loadDoc(t)))
	require.NoError(t, b.RegisterHandler("listPets", func(_ context.Context, _ ...any) (any, error) {
		return "pets", nil
	}))

	const workers = 16
	tables := make([]*router.Table, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := b.HandleRequest(context.Background(), &router.Request{Method: "GET", Path: "/pets"})
			assert.NoError(t, err)
			assert.Equal(t, "pets", resp)
			tables[i] = b.Router().Table()
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, tables[0], tables[i], "lazy init must build exactly one table")
	}
}

func TestRegisterDuringLazyInit(t *testing.T) {
	b := New(WithDocument(loadDoc(t)))

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		<-start
		// First request triggers lazy init; no handler is registered for it.
		_, _ = b.HandleRequest(context.Background(), &router.Request{Method: "GET", Path: "/pets/1"})
	}()
	go func() {
		defer wg.Done()
		<-start
		assert.NoError(t, b.RegisterHandler("listPets", func(_ context.Context, _ ...any) (any, error) {
			return "pets", nil
		}))
	}()
	close(start)
	wg.Wait()

	// Whichever side won the race, the registration must not be dropped.
	_, ok := b.Handler("listPets")
	assert.True(t, ok)
	resp, err := b.HandleRequest(context.Background(), &router.Request{Method: "GET", Path: "/pets"})
	require.NoError(t, err)
	assert.Equal(t, "pets", resp)
}

func TestPostResponseSkippedOnNotFound(t *testing.T) {
	b := newBackend(t)
	require.NoError(t, b.RegisterHandler(HandlerNotFound, func(_ context.Context, _ ...any) (any, error) {
		return "missing", nil
	}))
	require.NoError(t, b.RegisterHandler(HandlerPostResponse, func(_ context.Context, _ ...any) (any, error) {
		t.Error("post-response handler must not run on the notFound path")
		return nil, nil
	}))

	resp, err := b.HandleRequest(context.Background(), &router.Request{Method: "GET", Path: "/nope"})
	require.NoError(t, err)
	assert.Equal(t, "missing", resp)
}

func TestFromHTTPRoundTrip(t *testing.T) {
	b := newBackend(t)
	require.NoError(t, b.RegisterHandler("getPetById", func(_ context.Context, args ...any) (any, error) {
		c := args[0].(*Context)
		return c.Parsed.PathParams["id"], nil
	}))

	httpReq, err := http.NewRequest(http.MethodGet, "http://api.example.com/pets/7", nil)
	require.NoError(t, err)
	req, err := router.FromHTTP(httpReq)
	require.NoError(t, err)

	resp, err := b.HandleRequest(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp)
}
