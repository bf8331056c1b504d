package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studio/internal/domain"
	"studio/internal/export"
	"studio/internal/infra"
	"studio/internal/middleware"
	"studio/internal/orchestrator"
	"studio/internal/providers/caption"
	"studio/internal/providers/image"
	"studio/internal/styles"
)

type fakeUsers struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (f *fakeUsers) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byEmail[user.Email]; exists {
		return nil, fmt.Errorf("email %s: %w", user.Email, domain.ErrDuplicateEmail)
	}
	created := *user
	created.ID = uuid.NewString()
	created.CreatedAt = time.Now().UTC()
	f.byID[created.ID] = &created
	f.byEmail[created.Email] = &created
	out := created
	return &out, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeUsers) DebitCredits(ctx context.Context, userID string, amount int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if u.CreditsRemaining < amount {
		return 0, domain.ErrInsufficientCredits
	}
	u.CreditsRemaining -= amount
	return u.CreditsRemaining, nil
}

func (f *fakeUsers) AddCredits(ctx context.Context, userID string, amount int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	u.CreditsRemaining += amount
	return u.CreditsRemaining, nil
}

type fakeProjects struct {
	mu       sync.Mutex
	projects map[string]*domain.Project
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{projects: make(map[string]*domain.Project)}
}

func (f *fakeProjects) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := *project
	created.ID = uuid.NewString()
	created.CreatedAt = time.Now().UTC()
	created.UpdatedAt = created.CreatedAt
	f.projects[created.ID] = &created
	out := created
	return &out, nil
}

func (f *fakeProjects) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (f *fakeProjects) ListByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Project
	for _, p := range f.projects {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProjects) UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus, totalCreatives int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	p.TotalCreatives = totalCreatives
	return nil
}

func (f *fakeProjects) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.projects, id)
	return nil
}

type fakeCreatives struct {
	mu        sync.Mutex
	byProject map[string][]domain.Creative
}

func newFakeCreatives() *fakeCreatives {
	return &fakeCreatives{byProject: make(map[string][]domain.Creative)}
}

func (f *fakeCreatives) SaveAll(ctx context.Context, creatives []domain.Creative) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range creatives {
		f.byProject[c.ProjectID] = append(f.byProject[c.ProjectID], c)
	}
	return nil
}

func (f *fakeCreatives) ListByProject(ctx context.Context, projectID string) ([]domain.Creative, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Creative, len(f.byProject[projectID]))
	copy(out, f.byProject[projectID])
	return out, nil
}

type fakeUsage struct {
	mu      sync.Mutex
	entries []domain.UsageLogEntry
}

func (f *fakeUsage) Append(ctx context.Context, entry *domain.UsageLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeUsage) ListRecent(ctx context.Context, limit int) ([]domain.UsageLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.UsageLogEntry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

type fakeStats struct{}

func (fakeStats) Summary(ctx context.Context) (*domain.StatsSummary, error) {
	return &domain.StatsSummary{TotalUsers: 2, TotalProjects: 3, TotalCreatives: 12, CallsLast24h: 4}, nil
}

func (fakeStats) ListUserOverviews(ctx context.Context, limit, offset int) ([]domain.UserOverview, error) {
	return []domain.UserOverview{
		{ID: "u1", Email: "one@example.com", Plan: domain.PlanFree, CreditsRemaining: 90, TotalProjects: 2, CreatedAt: time.Now().UTC()},
	}, nil
}

type okGenerator struct{}

func (okGenerator) Generate(ctx context.Context, prompt string) (image.Ref, error) {
	return image.Ref{URL: "https://img.test/ok.png", Provider: "stub"}, nil
}

type testApp struct {
	app       *App
	users     *fakeUsers
	projects  *fakeProjects
	creatives *fakeCreatives
	usage     *fakeUsage
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := &infra.Config{
		AppEnv:             "test",
		JWTSecret:          "test-secret",
		AdminEmails:        []string{"admin@example.com"},
		SignupCredits:      100,
		CreditCostPerBatch: 10,
		MaxBatchQuantity:   30,
		RateLimitPerMin:    1000,
	}

	users := newFakeUsers()
	projects := newFakeProjects()
	creatives := newFakeCreatives()
	usage := &fakeUsage{}

	registry := image.NewRegistry("stub")
	registry.Register("stub", okGenerator{})

	orch := orchestrator.New(orchestrator.Options{
		Registry:    registry,
		Captioner:   caption.NewStaticCaptioner(),
		Users:       users,
		Projects:    projects,
		Creatives:   creatives,
		Usage:       usage,
		Logger:      zerolog.Nop(),
		CreditCost:  cfg.CreditCostPerBatch,
		MaxQuantity: cfg.MaxBatchQuantity,
		Concurrency: 2,
	})

	app := &App{
		Config:       cfg,
		Logger:       zerolog.Nop(),
		Users:        users,
		Projects:     projects,
		Creatives:    creatives,
		Usage:        usage,
		Stats:        fakeStats{},
		Orchestrator: orch,
		Exporter:     export.New(zerolog.Nop()),
	}
	return &testApp{app: app, users: users, projects: projects, creatives: creatives, usage: usage}
}

// authed attaches the auth context and a chi route parameter to a request the
// way the router would.
func authed(r *http.Request, userID, email, routeID string) *http.Request {
	ctx := middleware.ContextWithUser(r.Context(), userID, email)
	if routeID != "" {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("id", routeID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	}
	return r.WithContext(ctx)
}

func seedUser(t *testing.T, users *fakeUsers, email string, credits int) *domain.User {
	t.Helper()
	user, err := users.Create(context.Background(), &domain.User{
		Email:            email,
		CredentialHash:   "x",
		CreditsRemaining: credits,
		Plan:             domain.PlanFree,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedProject(t *testing.T, projects *fakeProjects, userID string) *domain.Project {
	t.Helper()
	project, err := projects.Create(context.Background(), &domain.Project{
		UserID: userID,
		Name:   "Bold Creatives",
		Style:  string(styles.Bold),
		Status: domain.ProjectCompleted,
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return project
}
