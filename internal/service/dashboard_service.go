package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/mapper"
	"github.com/doorline/leadcapture-api/internal/repository"
	"github.com/doorline/leadcapture-api/internal/wizard"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DashboardService lists stored leads and opens them in view mode
type DashboardService struct {
	leadRepo *repository.LeadRepository
	logger   *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(leadRepo *repository.LeadRepository, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		leadRepo: leadRepo,
		logger:   logger,
	}
}

// scopeFor returns the lead visibility of identity. Admins see every lead,
// users only what they submitted.
func scopeFor(identity *domain.Identity) repository.LeadScope {
	if identity == nil {
		return repository.LeadScope{}
	}
	if identity.IsAdmin() {
		return repository.AllLeads
	}
	return repository.OwnLeads(identity.Email)
}

// ListLeads returns the leads visible to identity, newest first, filtered by
// search. The term is matched as given, surrounding whitespace included.
// A failed fetch is logged and yields an empty, degraded list.
func (s *DashboardService) ListLeads(ctx context.Context, identity *domain.Identity, search string) domain.LeadListResponse {
	resp := domain.LeadListResponse{
		Leads:  []domain.LeadSummaryDTO{},
		Search: search,
	}

	leads, err := s.leadRepo.List(ctx, scopeFor(identity))
	if err != nil {
		email := ""
		if identity != nil {
			email = identity.Email
		}
		s.logger.Error("failed to fetch leads",
			zap.String("user_email", email),
			zap.Error(err),
		)
		resp.Degraded = true
		return resp
	}

	for i := range leads {
		if matchesSearch(&leads[i], search) {
			resp.Leads = append(resp.Leads, mapper.ToLeadSummaryDTO(&leads[i]))
		}
	}
	resp.Total = len(resp.Leads)
	return resp
}

// matchesSearch reports whether the lead number, customer name or project
// name contains term, ignoring case. An empty term matches everything.
func matchesSearch(lead *domain.Lead, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, v := range []string{lead.LeadNumber, mapper.CustomerName(lead), mapper.ProjectName(lead)} {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// GetLead opens a stored lead read-only
func (s *DashboardService) GetLead(ctx context.Context, identity *domain.Identity, id uuid.UUID) (*domain.LeadDetailDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, id, scopeFor(identity))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	form := mapper.ToLeadForm(lead)
	view := wizard.NewViewController(form)

	return &domain.LeadDetailDTO{
		LeadSummaryDTO: mapper.ToLeadSummaryDTO(lead),
		FormData:       form,
		Review:         view.Review(),
	}, nil
}
