package repository

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"linkhub/internal/database"
	"linkhub/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()
	if !testing.Short() {
		terminate = setupDatabase(context.Background())
	}

	code := m.Run()

	if testPool != nil {
		testPool.Close()
	}
	if terminate != nil {
		terminate()
	}
	os.Exit(code)
}

func setupDatabase(ctx context.Context) func() {
	// testcontainers panics when no Docker daemon is reachable
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setupDatabase: %v\n", r)
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return func() {}
	}
	terminate := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		return terminate
	}
	pool, err := database.NewPool(ctx, connStr, 5, false)
	if err != nil {
		fmt.Printf("WARNING: Failed to connect: %v\n", err)
		return terminate
	}
	if err := database.Migrate(ctx, pool, "up"); err != nil {
		fmt.Printf("WARNING: Failed to migrate: %v\n", err)
		pool.Close()
		return terminate
	}
	testPool = pool
	return terminate
}

func requireDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testPool == nil {
		t.Skip("Skipping integration test: database not available")
	}
	return testPool
}

var userSeq int

func createUser(t *testing.T, users UserRepository) *model.User {
	t.Helper()
	userSeq++
	username := fmt.Sprintf("user%d_%d", userSeq, time.Now().UnixNano()%100000)
	u := &model.User{Name: "Test " + username, Email: username + "@example.com", Username: &username}
	require.NoError(t, users.CreateWithProfile(context.Background(), u))
	require.NotEmpty(t, u.ID)
	return u
}

func TestUserRepo_CreateWithProfileAndDuplicates(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	users := NewUserRepo(pool)
	profiles := NewProfileRepo(pool)

	u := createUser(t, users)

	p, err := profiles.Get(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "light", p.Theme)
	assert.Equal(t, "rounded", p.ButtonStyle)
	assert.False(t, p.EmailCaptureEnabled)

	dupEmail := &model.User{Name: "x", Email: u.Email, Username: strPtr(u.UsernameOrEmpty() + "x")}
	assert.ErrorIs(t, users.CreateWithProfile(ctx, dupEmail), ErrDuplicateEmail)

	upper := strings.ToUpper(u.UsernameOrEmpty())
	dupName := &model.User{Name: "x", Email: "other" + u.Email, Username: &upper}
	assert.ErrorIs(t, users.CreateWithProfile(ctx, dupName), ErrDuplicateUsername)

	byName, err := users.GetByUsername(ctx, upper)
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, u.ID, byName.ID)

	taken, err := users.UsernameTaken(ctx, upper, u.ID)
	require.NoError(t, err)
	assert.False(t, taken, "own username is not taken")

	missing, err := users.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLinkRepo_OwnershipOrderAndClicks(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	users := NewUserRepo(pool)
	links := NewLinkRepo(pool)
	analytics := NewAnalyticsRepo(pool)

	owner := createUser(t, users)
	other := createUser(t, users)

	a := &model.Link{UserID: owner.ID, Title: "A", URL: "https://a.test", Type: model.LinkTypeLink, Order: 0}
	b := &model.Link{UserID: owner.ID, Title: "B", URL: "https://b.test", Type: model.LinkTypeYouTube, Order: 1}
	require.NoError(t, links.Create(ctx, a))
	require.NoError(t, links.Create(ctx, b))
	assert.True(t, a.IsActive)

	inactive := false
	updated, err := links.Update(ctx, b.ID, owner.ID, model.LinkUpdate{IsActive: &inactive})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.False(t, updated.IsActive)

	embedded, err := links.Update(ctx, b.ID, owner.ID, model.LinkUpdate{EmbedURL: strPtr("https://www.youtube.com/embed/x")})
	require.NoError(t, err)
	require.NotNil(t, embedded.EmbedURL)
	cleared, err := links.Update(ctx, b.ID, owner.ID, model.LinkUpdate{ClearEmbedURL: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.EmbedURL)

	stolen, err := links.Update(ctx, a.ID, other.ID, model.LinkUpdate{Title: strPtr("mine")})
	require.NoError(t, err)
	assert.Nil(t, stolen)
	deleted, err := links.Delete(ctx, a.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	all, err := links.ListByUser(ctx, owner.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	public, err := links.ListByUser(ctx, owner.ID, true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, a.ID, public[0].ID)

	require.NoError(t, links.Reorder(ctx, owner.ID, []string{b.ID, a.ID}))
	all, err = links.ListByUser(ctx, owner.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, a.ID}, []string{all[0].ID, all[1].ID})

	found, err := analytics.RecordClick(ctx, &model.AnalyticsEvent{UserID: owner.ID, LinkID: &a.ID})
	require.NoError(t, err)
	assert.True(t, found)
	found, err = analytics.RecordClick(ctx, &model.AnalyticsEvent{UserID: other.ID, LinkID: &a.ID})
	require.NoError(t, err)
	assert.False(t, found)

	total, err := links.SumClicks(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	clicks, err := analytics.CountEvents(ctx, owner.ID, model.EventLinkClick, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, clicks)
}

func TestAnalyticsRepo_BreakdownAndRetention(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	users := NewUserRepo(pool)
	analytics := NewAnalyticsRepo(pool)
	u := createUser(t, users)

	mobile, desktop := "mobile", "desktop"
	for _, d := range []*string{&mobile, &mobile, &desktop, nil} {
		require.NoError(t, analytics.RecordPageView(ctx, &model.AnalyticsEvent{UserID: u.ID, Device: d}))
	}

	rows, err := analytics.Breakdown(ctx, u.ID, DimensionDevice, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, model.Breakdown{Value: "mobile", Count: 2}, rows[0])

	daily, err := analytics.DailyPageViews(ctx, u.ID, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	sum := 0
	for _, d := range daily {
		sum += d.Count
	}
	assert.Equal(t, 4, sum)

	n, err := analytics.DeleteOlderThan(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(4))
	left, err := analytics.CountEvents(ctx, u.ID, model.EventPageView, time.Time{})
	require.NoError(t, err)
	assert.Zero(t, left)
}

func TestSubscriberRepo_UpsertKeepsName(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	u := createUser(t, NewUserRepo(pool))
	subs := NewSubscriberRepo(pool)

	first, err := subs.Upsert(ctx, u.ID, "fan@example.com", strPtr("Fan"))
	require.NoError(t, err)
	again, err := subs.Upsert(ctx, u.ID, "fan@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	require.NotNil(t, again.Name)
	assert.Equal(t, "Fan", *again.Name)

	list, err := subs.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSubscriptionRepo_ApplyOnce(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	users := NewUserRepo(pool)
	subs := NewSubscriptionRepo(pool)
	u := createUser(t, users)

	end := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
	plan, payID := "pro_INR", "pay_it_1"
	ev := model.PaymentEvent{Provider: model.ProviderRazorpay, Key: payID, UserID: u.ID, Kind: "verify"}

	applied, err := subs.ApplyOnce(ctx, ev, model.BillingUpdate{PlanID: &plan, SubscriptionEndDate: &end, RazorpayCustomerID: &payID})
	require.NoError(t, err)
	assert.True(t, applied)

	later := end.Add(24 * time.Hour)
	applied, err = subs.ApplyOnce(ctx, ev, model.BillingUpdate{SubscriptionEndDate: &later})
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SubscriptionEndDate)
	assert.True(t, end.Equal(*got.SubscriptionEndDate), "replay must not move the end date")
	assert.True(t, got.IsPro(time.Now()))

	var recorded int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*) FROM payment_events WHERE provider = $1 AND event_key = $2`,
		model.ProviderRazorpay, payID).Scan(&recorded))
	assert.Equal(t, 1, recorded)

	require.NoError(t, users.UpdateBilling(ctx, u.ID, model.BillingUpdate{ClearPlan: true}))
	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PlanID)
	assert.False(t, got.IsPro(time.Now()))
}

func TestUserRepo_DeleteCascades(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	users := NewUserRepo(pool)
	profiles := NewProfileRepo(pool)
	u := createUser(t, users)

	require.NoError(t, users.Delete(ctx, u.ID))
	p, err := profiles.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func strPtr(s string) *string { return &s }
