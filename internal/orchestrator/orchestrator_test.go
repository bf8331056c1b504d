package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studio/internal/domain"
	"studio/internal/fallback"
	"studio/internal/providers/caption"
	"studio/internal/providers/image"
	"studio/internal/styles"
)

type stubGenerator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (image.Ref, error) {
	g.mu.Lock()
	g.calls++
	n := g.calls
	g.mu.Unlock()
	if g.err != nil {
		return image.Ref{}, g.err
	}
	return image.Ref{URL: fmt.Sprintf("https://img.test/%d.png", n), Provider: "stub"}, nil
}

type stubCaptioner struct {
	err  error
	text string
}

func (c *stubCaptioner) Caption(ctx context.Context, style styles.Style, index int) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	if c.text != "" {
		return c.text, nil
	}
	return fmt.Sprintf("caption %d", index), nil
}

type memUsers struct {
	mu       sync.Mutex
	balance  int
	debits   []int
	debitErr error
}

func (m *memUsers) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return user, nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id, CreditsRemaining: m.balance}, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (m *memUsers) DebitCredits(ctx context.Context, userID string, amount int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.debitErr != nil {
		return 0, m.debitErr
	}
	if m.balance < amount {
		return 0, domain.ErrInsufficientCredits
	}
	m.balance -= amount
	m.debits = append(m.debits, amount)
	return m.balance, nil
}

func (m *memUsers) AddCredits(ctx context.Context, userID string, amount int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance += amount
	return m.balance, nil
}

type memProjects struct {
	mu       sync.Mutex
	projects map[string]*domain.Project
}

func newMemProjects() *memProjects {
	return &memProjects{projects: make(map[string]*domain.Project)}
}

func (m *memProjects) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *project
	created.ID = uuid.NewString()
	m.projects[created.ID] = &created
	out := created
	return &out, nil
}

func (m *memProjects) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (m *memProjects) ListByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Project
	for _, p := range m.projects {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProjects) UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus, totalCreatives int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	p.TotalCreatives = totalCreatives
	return nil
}

func (m *memProjects) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.projects, id)
	return nil
}

type memCreatives struct {
	mu    sync.Mutex
	saved [][]domain.Creative
}

func (m *memCreatives) SaveAll(ctx context.Context, creatives []domain.Creative) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch := make([]domain.Creative, len(creatives))
	copy(batch, creatives)
	m.saved = append(m.saved, batch)
	return nil
}

func (m *memCreatives) ListByProject(ctx context.Context, projectID string) ([]domain.Creative, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Creative
	for _, batch := range m.saved {
		for _, c := range batch {
			if c.ProjectID == projectID {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

type memUsage struct {
	mu      sync.Mutex
	entries []domain.UsageLogEntry
}

func (m *memUsage) Append(ctx context.Context, entry *domain.UsageLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memUsage) ListRecent(ctx context.Context, limit int) ([]domain.UsageLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.UsageLogEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

type fixture struct {
	orch      *Orchestrator
	generator *stubGenerator
	users     *memUsers
	projects  *memProjects
	creatives *memCreatives
	usage     *memUsage
}

func newFixture(t *testing.T, generator *stubGenerator, captioner caption.Captioner) *fixture {
	t.Helper()
	registry := image.NewRegistry("stub")
	registry.Register("stub", generator)

	users := &memUsers{balance: 100}
	projects := newMemProjects()
	creatives := &memCreatives{}
	usage := &memUsage{}

	orch := New(Options{
		Registry:    registry,
		Captioner:   captioner,
		Users:       users,
		Projects:    projects,
		Creatives:   creatives,
		Usage:       usage,
		Logger:      zerolog.Nop(),
		CreditCost:  10,
		MaxQuantity: 30,
		Concurrency: 4,
	})
	return &fixture{orch: orch, generator: generator, users: users, projects: projects, creatives: creatives, usage: usage}
}

func TestRunFullQuantityInOrder(t *testing.T) {
	f := newFixture(t, &stubGenerator{}, &stubCaptioner{})

	result, err := f.orch.Run(context.Background(), Request{UserID: "user-1", Style: "bold", Quantity: 5})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(result.Creatives) != 5 {
		t.Fatalf("Run() returned %d creatives, want 5", len(result.Creatives))
	}
	for i, c := range result.Creatives {
		if c.VariationIndex != i+1 {
			t.Fatalf("creative %d has variation index %d", i, c.VariationIndex)
		}
		if fallback.IsFallback(c.ImageRef) {
			t.Fatalf("creative %d unexpectedly used the fallback placeholder", i+1)
		}
		if c.Style != "bold" {
			t.Fatalf("creative %d style = %q", i+1, c.Style)
		}
	}
	if result.Project.Status != domain.ProjectCompleted {
		t.Fatalf("project status = %q, want completed", result.Project.Status)
	}
	if result.Project.TotalCreatives != 5 {
		t.Fatalf("project total creatives = %d, want 5", result.Project.TotalCreatives)
	}
}

func TestRunDebitsExactlyOnce(t *testing.T) {
	f := newFixture(t, &stubGenerator{}, &stubCaptioner{})

	result, err := f.orch.Run(context.Background(), Request{UserID: "user-1", Style: "modern", Quantity: 8})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(f.users.debits) != 1 || f.users.debits[0] != 10 {
		t.Fatalf("debits = %v, want exactly one of 10", f.users.debits)
	}
	if result.CreditsCharged != 10 {
		t.Fatalf("CreditsCharged = %d, want 10", result.CreditsCharged)
	}
	if result.CreditsRemaining != 90 {
		t.Fatalf("CreditsRemaining = %d, want 90", result.CreditsRemaining)
	}
	if len(f.usage.entries) != 1 {
		t.Fatalf("usage entries = %d, want 1", len(f.usage.entries))
	}
	entry := f.usage.entries[0]
	if entry.Action != domain.ActionGenerateCreatives || entry.CreditsUsed != 10 {
		t.Fatalf("usage entry = %+v", entry)
	}
}

func TestRunProviderFailureFallsBackForAll(t *testing.T) {
	generator := &stubGenerator{err: fmt.Errorf("boom: %w", domain.ErrProviderFailure)}
	f := newFixture(t, generator, &stubCaptioner{err: errors.New("caption down")})

	result, err := f.orch.Run(context.Background(), Request{UserID: "user-1", Style: "playful", Quantity: 4})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(result.Creatives) != 4 {
		t.Fatalf("Run() returned %d creatives, want 4", len(result.Creatives))
	}
	for i, c := range result.Creatives {
		if !fallback.IsFallback(c.ImageRef) {
			t.Fatalf("creative %d did not use the fallback placeholder", i+1)
		}
		if c.Caption != styles.DefaultCaption(styles.Playful) {
			t.Fatalf("creative %d caption = %q, want default", i+1, c.Caption)
		}
	}
	if len(f.users.debits) != 1 {
		t.Fatalf("debits = %v, want exactly one", f.users.debits)
	}
	if result.Project.Status != domain.ProjectCompleted {
		t.Fatalf("project status = %q, want completed", result.Project.Status)
	}
}

func TestRunMissingCredentialAbortsWithoutDebit(t *testing.T) {
	generator := &stubGenerator{err: fmt.Errorf("no key: %w", domain.ErrMissingCredential)}
	f := newFixture(t, generator, &stubCaptioner{})

	_, err := f.orch.Run(context.Background(), Request{UserID: "user-1", Style: "bold", Quantity: 3})
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("Run() error = %v, want ErrMissingCredential", err)
	}
	if len(f.users.debits) != 0 {
		t.Fatalf("debits = %v, want none", f.users.debits)
	}
	if len(f.creatives.saved) != 0 {
		t.Fatalf("creatives were saved for an aborted batch")
	}
	if len(f.usage.entries) != 0 {
		t.Fatalf("usage entries = %d, want none", len(f.usage.entries))
	}
	for _, p := range f.projects.projects {
		if p.Status != domain.ProjectFailed {
			t.Fatalf("project status = %q, want failed", p.Status)
		}
	}
}

func TestRunUnconfiguredProviderAbortsWithoutProject(t *testing.T) {
	registry := image.NewRegistry("stub")
	users := &memUsers{balance: 100}
	projects := newMemProjects()
	orch := New(Options{
		Registry:    registry,
		Captioner:   &stubCaptioner{},
		Users:       users,
		Projects:    projects,
		Creatives:   &memCreatives{},
		Usage:       &memUsage{},
		Logger:      zerolog.Nop(),
		CreditCost:  10,
		MaxQuantity: 30,
		Concurrency: 2,
	})

	_, err := orch.Run(context.Background(), Request{UserID: "user-1", Style: "bold", Quantity: 2})
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("Run() error = %v, want ErrMissingCredential", err)
	}
	if len(users.debits) != 0 {
		t.Fatalf("debits = %v, want none", users.debits)
	}
	if len(projects.projects) != 0 {
		t.Fatalf("project was created before provider resolution failed")
	}
}

func TestRunQuantityValidation(t *testing.T) {
	f := newFixture(t, &stubGenerator{}, &stubCaptioner{})

	for _, quantity := range []int{0, -1, 31} {
		_, err := f.orch.Run(context.Background(), Request{UserID: "user-1", Style: "bold", Quantity: quantity})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("Run(quantity=%d) error = %v, want ErrInvalidRequest", quantity, err)
		}
	}
	if len(f.projects.projects) != 0 {
		t.Fatalf("projects were created for invalid requests")
	}
}

func TestRunNormalizesUnknownStyle(t *testing.T) {
	f := newFixture(t, &stubGenerator{}, &stubCaptioner{})

	result, err := f.orch.Run(context.Background(), Request{UserID: "user-1", Style: "vaporwave", Quantity: 1})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result.Project.Style != "modern" {
		t.Fatalf("project style = %q, want modern", result.Project.Style)
	}
	if result.Project.Name != "Modern Creatives" {
		t.Fatalf("default project name = %q", result.Project.Name)
	}
}

func TestRunInsufficientBalanceSurfaces(t *testing.T) {
	f := newFixture(t, &stubGenerator{}, &stubCaptioner{})
	f.users.balance = 5

	_, err := f.orch.Run(context.Background(), Request{UserID: "user-1", Style: "bold", Quantity: 2})
	if !errors.Is(err, domain.ErrInsufficientCredits) {
		t.Fatalf("Run() error = %v, want ErrInsufficientCredits", err)
	}
}
