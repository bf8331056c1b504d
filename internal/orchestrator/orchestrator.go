// Package orchestrator drives one generation batch end to end: prompts,
// provider calls, fallback substitution, captions, persistence, and the
// single per-batch credit debit.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"studio/internal/domain"
	"studio/internal/fallback"
	"studio/internal/infra"
	"studio/internal/prompt"
	"studio/internal/providers/caption"
	"studio/internal/providers/image"
	"studio/internal/styles"
)

// Request describes one accepted generation batch. Immutable once passed in.
type Request struct {
	UserID        string
	ProjectName   string
	LogoRef       string
	ProductRef    string
	Style         string
	Quantity      int
	Provider      string
	SourceAddress string
	Country       string
}

// Result is the assembled outcome of a completed batch.
type Result struct {
	Project          *domain.Project
	Creatives        []domain.Creative
	CreditsCharged   int
	CreditsRemaining int
}

// Options wires the orchestrator's collaborators and policy knobs.
type Options struct {
	Registry    *image.Registry
	Captioner   caption.Captioner
	Users       domain.UserRepository
	Projects    domain.ProjectRepository
	Creatives   domain.CreativeRepository
	Usage       domain.UsageRepository
	Logger      infra.Logger
	CreditCost  int
	MaxQuantity int
	Concurrency int
}

// Orchestrator generates full batches. All provider calls for a batch are
// dispatched concurrently under a weighted semaphore shared across requests,
// and results are written by variation index so output order never depends on
// completion order.
type Orchestrator struct {
	registry    *image.Registry
	captioner   caption.Captioner
	users       domain.UserRepository
	projects    domain.ProjectRepository
	creatives   domain.CreativeRepository
	usage       domain.UsageRepository
	logger      infra.Logger
	creditCost  int
	maxQuantity int
	sem         *semaphore.Weighted
}

func New(opts Options) *Orchestrator {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	maxQuantity := opts.MaxQuantity
	if maxQuantity < 1 {
		maxQuantity = 30
	}
	return &Orchestrator{
		registry:    opts.Registry,
		captioner:   opts.Captioner,
		users:       opts.Users,
		projects:    opts.Projects,
		creatives:   opts.Creatives,
		usage:       opts.Usage,
		logger:      opts.Logger,
		creditCost:  opts.CreditCost,
		maxQuantity: maxQuantity,
		sem:         semaphore.NewWeighted(int64(concurrency)),
	}
}

// CreditCost returns the flat per-batch charge.
func (o *Orchestrator) CreditCost() int {
	return o.creditCost
}

// Run executes one batch. On success the returned creatives are
// index-complete: exactly req.Quantity records with variation indexes 1..N.
// A missing provider credential aborts the whole batch before any charge;
// every other provider failure is absorbed by fallback substitution.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Quantity < 1 || req.Quantity > o.maxQuantity {
		return nil, fmt.Errorf("quantity %d out of range [1,%d]: %w", req.Quantity, o.maxQuantity, domain.ErrInvalidRequest)
	}
	if req.UserID == "" {
		return nil, fmt.Errorf("user id required: %w", domain.ErrInvalidRequest)
	}

	style := styles.Normalize(req.Style)
	generator, providerName := o.registry.Resolve(req.Provider)
	if generator == nil {
		return nil, fmt.Errorf("image provider %q not configured: %w", req.Provider, domain.ErrMissingCredential)
	}

	name := req.ProjectName
	if name == "" {
		name = cases.Title(language.English).String(string(style)) + " Creatives"
	}
	project, err := o.projects.Create(ctx, &domain.Project{
		UserID: req.UserID,
		Name:   name,
		Style:  string(style),
		Status: domain.ProjectPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if err := o.projects.UpdateStatus(ctx, project.ID, domain.ProjectProcessing, 0); err != nil {
		return nil, fmt.Errorf("mark project processing: %w", err)
	}

	results := make([]domain.Creative, req.Quantity)
	group, groupCtx := errgroup.WithContext(ctx)
	for i := 1; i <= req.Quantity; i++ {
		index := i
		group.Go(func() error {
			if err := o.sem.Acquire(groupCtx, 1); err != nil {
				return err
			}
			defer o.sem.Release(1)

			creative, err := o.generateVariation(groupCtx, generator, style, index, req.Quantity)
			if err != nil {
				return err
			}
			creative.ProjectID = project.ID
			results[index-1] = creative
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		if statusErr := o.projects.UpdateStatus(ctx, project.ID, domain.ProjectFailed, 0); statusErr != nil {
			o.logger.Error().Err(statusErr).Str("project_id", project.ID).Msg("orchestrator: mark project failed")
		}
		return nil, err
	}

	if err := o.creatives.SaveAll(ctx, results); err != nil {
		return nil, fmt.Errorf("save creatives: %w", err)
	}
	if err := o.projects.UpdateStatus(ctx, project.ID, domain.ProjectCompleted, len(results)); err != nil {
		return nil, fmt.Errorf("mark project completed: %w", err)
	}
	project.Status = domain.ProjectCompleted
	project.TotalCreatives = len(results)

	// One debit and one audit entry per batch, only after the batch reached a
	// terminal state. Fallback-substituted variations count as completed.
	remaining, err := o.users.DebitCredits(ctx, req.UserID, o.creditCost)
	if err != nil {
		return nil, fmt.Errorf("debit credits: %w", err)
	}
	if err := o.usage.Append(ctx, &domain.UsageLogEntry{
		UserID:        req.UserID,
		ProjectID:     project.ID,
		Action:        domain.ActionGenerateCreatives,
		CreditsUsed:   o.creditCost,
		SourceAddress: req.SourceAddress,
		Country:       req.Country,
	}); err != nil {
		o.logger.Error().Err(err).Str("project_id", project.ID).Msg("orchestrator: append usage log")
	}

	o.logger.Info().
		Str("project_id", project.ID).
		Str("provider", providerName).
		Str("style", string(style)).
		Int("quantity", len(results)).
		Msg("orchestrator: batch completed")

	return &Result{
		Project:          project,
		Creatives:        results,
		CreditsCharged:   o.creditCost,
		CreditsRemaining: remaining,
	}, nil
}

func (o *Orchestrator) generateVariation(ctx context.Context, generator image.Generator, style styles.Style, index, total int) (domain.Creative, error) {
	promptText := prompt.Build(style, index, total)

	imageRef := ""
	ref, err := generator.Generate(ctx, promptText)
	switch {
	case err == nil:
		imageRef = ref.URL
	case errors.Is(err, domain.ErrMissingCredential):
		return domain.Creative{}, err
	default:
		o.logger.Warn().Err(err).Int("variation", index).Msg("orchestrator: image provider failed, using fallback")
		imageRef = fallback.DataURL(index)
	}

	captionText, err := o.captioner.Caption(ctx, style, index)
	if err != nil || captionText == "" {
		captionText = styles.DefaultCaption(style)
	}

	return domain.Creative{
		ID:             uuid.NewString(),
		VariationIndex: index,
		ImageRef:       imageRef,
		Caption:        captionText,
		Prompt:         promptText,
		Style:          string(style),
		GeneratedAt:    time.Now().UTC(),
	}, nil
}
