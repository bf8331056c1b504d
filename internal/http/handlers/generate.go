package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"studio/internal/domain"
	"studio/internal/middleware"
	"studio/internal/orchestrator"
)

type generateRequest struct {
	ProjectName string `json:"projectName"`
	LogoRef     string `json:"logoRef"`
	ProductRef  string `json:"productRef"`
	Style       string `json:"style"`
	Quantity    int    `json:"quantity"`
	Provider    string `json:"provider"`
}

type creativeDTO struct {
	ID             string `json:"id"`
	VariationIndex int    `json:"variationIndex"`
	ImageURL       string `json:"imageUrl"`
	Caption        string `json:"caption"`
	Prompt         string `json:"prompt"`
	Style          string `json:"style"`
	GeneratedAt    string `json:"generatedAt"`
}

type generateResponse struct {
	ProjectID        string        `json:"projectId"`
	ProjectName      string        `json:"projectName"`
	Style            string        `json:"style"`
	Status           string        `json:"status"`
	Creatives        []creativeDTO `json:"creatives"`
	TotalGenerated   int           `json:"totalGenerated"`
	CreditsCharged   int           `json:"creditsCharged"`
	CreditsRemaining int           `json:"creditsRemaining"`
}

type insufficientCreditsResponse struct {
	Error     errorBody `json:"error"`
	Needed    int       `json:"needed"`
	Remaining int       `json:"remaining"`
}

func creativeDTOs(creatives []domain.Creative) []creativeDTO {
	out := make([]creativeDTO, 0, len(creatives))
	for _, c := range creatives {
		out = append(out, creativeDTO{
			ID:             c.ID,
			VariationIndex: c.VariationIndex,
			ImageURL:       c.ImageRef,
			Caption:        c.Caption,
			Prompt:         c.Prompt,
			Style:          c.Style,
			GeneratedAt:    c.GeneratedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// Generate runs one creative batch for the authenticated user. The credit
// balance is gated up front and debited exactly once when the batch reaches a
// terminal completed state.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Quantity < 1 || req.Quantity > a.Config.MaxBatchQuantity {
		a.error(w, http.StatusBadRequest, "bad_request", "quantity out of range")
		return
	}

	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusUnauthorized, "unauthorized", "user not found")
			return
		}
		a.Logger.Error().Err(err).Msg("generate: lookup user")
		a.error(w, http.StatusInternalServerError, "internal", "lookup failed")
		return
	}

	cost := a.Orchestrator.CreditCost()
	if !user.HasCredits(cost) {
		a.json(w, http.StatusPaymentRequired, insufficientCreditsResponse{
			Error:     errorBody{Code: "insufficient_credits", Message: "not enough credits for this batch"},
			Needed:    cost,
			Remaining: user.CreditsRemaining,
		})
		return
	}

	sourceIP := middleware.ClientIP(r)
	result, err := a.Orchestrator.Run(r.Context(), orchestrator.Request{
		UserID:        userID,
		ProjectName:   strings.TrimSpace(req.ProjectName),
		LogoRef:       req.LogoRef,
		ProductRef:    req.ProductRef,
		Style:         req.Style,
		Quantity:      req.Quantity,
		Provider:      req.Provider,
		SourceAddress: sourceIP,
		Country:       a.countryFor(sourceIP),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		case errors.Is(err, domain.ErrInsufficientCredits):
			a.json(w, http.StatusPaymentRequired, insufficientCreditsResponse{
				Error:     errorBody{Code: "insufficient_credits", Message: "not enough credits for this batch"},
				Needed:    cost,
				Remaining: user.CreditsRemaining,
			})
		case errors.Is(err, domain.ErrMissingCredential):
			a.Logger.Error().Err(err).Msg("generate: provider misconfigured")
			a.error(w, http.StatusInternalServerError, "provider_unconfigured", "image provider is not configured")
		default:
			a.Logger.Error().Err(err).Msg("generate: batch failed")
			a.error(w, http.StatusInternalServerError, "internal", "generation failed")
		}
		return
	}

	a.json(w, http.StatusOK, generateResponse{
		ProjectID:        result.Project.ID,
		ProjectName:      result.Project.Name,
		Style:            result.Project.Style,
		Status:           string(result.Project.Status),
		Creatives:        creativeDTOs(result.Creatives),
		TotalGenerated:   len(result.Creatives),
		CreditsCharged:   result.CreditsCharged,
		CreditsRemaining: result.CreditsRemaining,
	})
}
