package helpers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/chit-ledger/internal/handlers"
	"github.com/nimasrn/chit-ledger/internal/lock"
	"github.com/nimasrn/chit-ledger/internal/queue"
	"github.com/nimasrn/chit-ledger/internal/repository"
	"github.com/nimasrn/chit-ledger/internal/services"
	xhttp "github.com/nimasrn/chit-ledger/pkg/http"
	"github.com/nimasrn/chit-ledger/pkg/pg"
	"github.com/nimasrn/chit-ledger/pkg/redis"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func SetupTestDB(t *testing.T) *pg.DB {
	db, err := pg.CreateSQLite(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db.Write(context.Background())))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SetupTestRedis starts a miniredis and an adapter cached under the test's
// name, so parallel tests never share a client.
func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.Adapter) {
	mr := miniredis.RunT(t)
	adapter, err := redis.NewRedisAdapter(t.Name(), "chit:", &redis.Options{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })
	return mr, adapter
}

func QueueConfig(consumer string) queue.QueueConfig {
	return queue.QueueConfig{
		Name:              "ledger:events",
		ConsumerGroup:     "projector",
		ConsumerName:      consumer,
		MaxRetries:        3,
		VisibilityTimeout: time.Second,
		PollInterval:      20 * time.Millisecond,
		BatchSize:         50,
		MaxLen:            10_000,
		EnableDLQ:         true,
	}
}

// App is the API wired the way cmd/api wires it, minus the listener.
type App struct {
	Server *xhttp.Engine
	Queue  *queue.Queue
}

func NewApp(t *testing.T, db *pg.DB, adapter redis.Adapter) *App {
	q, err := queue.NewQueue(adapter, QueueConfig("api"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Stop(time.Second) })

	locker := lock.NewGroupLock(adapter, lock.DefaultTTL)
	events := queue.NewEventPublisher(q)

	store := repository.NewStore(db)
	groupRepo := repository.NewGroupRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	auctionRepo := repository.NewAuctionRepository(db)
	dueRepo := repository.NewDueRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	reportRepo := repository.NewReportRepository(db)

	limits := services.DurationLimits{Min: 1, Max: 120}
	s := xhttp.CreateServer()
	s.Use(xhttp.RecoverMiddleware)

	g := s.Router.Group("/api/v1")
	handlers.RegisterGroupRoutes(g, handlers.NewGroupHandler(services.NewGroupService(store, groupRepo, memberRepo, auctionRepo, events, locker, limits)))
	handlers.RegisterAuctionRoutes(g, handlers.NewAuctionHandler(services.NewAuctionService(store, groupRepo, membershipRepo, auctionRepo, events, locker)))
	handlers.RegisterMembershipRoutes(g, handlers.NewMembershipHandler(services.NewMembershipService(store, groupRepo, memberRepo, membershipRepo, ledgerRepo, reportRepo, events, locker)))
	handlers.RegisterPaymentRoutes(g, handlers.NewPaymentHandler(services.NewPaymentService(store, groupRepo, dueRepo, events, locker)))
	handlers.RegisterReportRoutes(g, handlers.NewReportHandler(services.NewReportService(groupRepo, dueRepo, ledgerRepo, auctionRepo, reportRepo)))
	handlers.RegisterHealthRoutes(g, handlers.NewHealthHandler(map[string]handlers.HealthCheck{
		"db":    db.Ping,
		"redis": adapter.Ping,
	}))

	return &App{Server: s, Queue: q}
}

// Do runs one request through the full handler chain. A non-nil body is sent
// as JSON.
func (a *App) Do(t *testing.T, method, path string, body any) (int, []byte) {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBody(raw)
	}
	a.Server.Handler()(ctx)
	return ctx.Response.StatusCode(), append([]byte(nil), ctx.Response.Body()...)
}

// DoJSON runs the request, requires the given status and decodes the body
// into dst when dst is not nil.
func (a *App) DoJSON(t *testing.T, method, path string, body any, status int, dst any) {
	t.Helper()
	got, raw := a.Do(t, method, path, body)
	require.Equal(t, status, got, "%s %s: %s", method, path, raw)
	if dst != nil {
		require.NoError(t, json.Unmarshal(raw, dst))
	}
}
