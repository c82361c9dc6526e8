// Package site implements the SiteService on top of a SiteRepository.
package site

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"signpost/internal/config"
	"signpost/internal/domain"
	"signpost/internal/domain/models"
	"signpost/internal/domain/repositories"
	"signpost/internal/domain/services"
	"signpost/internal/sidebar"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// siteService implements the SiteService interface
type siteService struct {
	siteRepo  repositories.SiteRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
	now       func() time.Time
}

// NewSiteService creates a new site service
func NewSiteService(
	siteRepo repositories.SiteRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.SiteService {
	return &siteService{
		siteRepo:  siteRepo,
		txManager: txManager,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateSite creates a new site
func (s *siteService) CreateSite(ctx context.Context, req *services.CreateSiteRequest) (*models.Site, error) {
	if err := validateName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	cfg := sidebar.Default()
	if req.Config != nil {
		cfg = req.Config.Clone()
	}
	if err := sidebar.Validate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	now := s.now().UTC()
	site := &models.Site{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Config:    cfg,
		CreatedBy: req.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.siteRepo.Create(ctx, site); err != nil {
		return nil, err
	}

	s.logger.Info("site created",
		"id", site.ID,
		"name", site.Name,
		"sidebars", len(cfg.Sidebars),
		"created_by", req.CreatedBy,
	)

	return site, nil
}

// GetSite retrieves a site by ID
func (s *siteService) GetSite(ctx context.Context, id string) (*models.Site, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.siteRepo.GetByID(ctx, id)
}

// GetSiteByName retrieves a site by name
func (s *siteService) GetSiteByName(ctx context.Context, name string) (*models.Site, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	return s.siteRepo.GetByName(ctx, name)
}

// ListSites retrieves all sites
func (s *siteService) ListSites(ctx context.Context) ([]models.Site, error) {
	return s.siteRepo.List(ctx)
}

// UpdateSite renames a site and/or replaces its config. The read and the
// write share one transaction.
func (s *siteService) UpdateSite(ctx context.Context, id string, req *services.UpdateSiteRequest) (*models.Site, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if req.Name == nil && req.Config == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}
	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}
	if req.Config != nil {
		if err := sidebar.Validate(*req.Config); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
	}

	var site *models.Site
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		existing, err := s.siteRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			existing.Name = strings.TrimSpace(*req.Name)
		}
		if req.Config != nil {
			existing.Config = req.Config.Clone()
		}
		existing.UpdatedAt = s.now().UTC()

		if err := s.siteRepo.Update(ctx, existing); err != nil {
			return err
		}
		site = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("site updated",
		"id", site.ID,
		"name", site.Name,
		"renamed", req.Name != nil,
		"config_replaced", req.Config != nil,
	)

	return site, nil
}

// DeleteSite deletes a site
func (s *siteService) DeleteSite(ctx context.Context, id string) (*models.Site, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	site, err := s.siteRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("site deleted", "id", id, "name", site.Name)

	return site, nil
}

// ValidateConfig validates a config without storing it
func (s *siteService) ValidateConfig(ctx context.Context, cfg sidebar.Config) (*services.ValidationReport, error) {
	if err := sidebar.Validate(cfg); err != nil {
		s.logger.Debug("config rejected", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	return &services.ValidationReport{
		Valid:    true,
		Sidebars: cfg.Names(),
		Stats:    cfg.Stats(),
		DocIDs:   cfg.DocIDs(),
	}, nil
}

// RenderSite encodes a site's config as a sidebars file
func (s *siteService) RenderSite(ctx context.Context, id string, format sidebar.Format) (*services.RenderedSite, error) {
	site, err := s.GetSite(ctx, id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := sidebar.Encode(&buf, site.Config, format); err != nil {
		return nil, fmt.Errorf("render site %s: %w", id, err)
	}

	return &services.RenderedSite{
		Filename:    "sidebars." + format.Ext(),
		ContentType: format.ContentType(),
		Content:     buf.Bytes(),
	}, nil
}

// RenderTree draws a site's config as a text tree
func (s *siteService) RenderTree(ctx context.Context, id string) (string, error) {
	site, err := s.GetSite(ctx, id)
	if err != nil {
		return "", err
	}
	return sidebar.RenderTree(site.Config), nil
}

func validateName(name string) error {
	return validation.Validate(strings.TrimSpace(name),
		validation.Required.Error("name is required"),
		validation.RuneLength(1, config.MaxSiteNameLength).Error(
			fmt.Sprintf("name must be at most %d characters", config.MaxSiteNameLength)),
	)
}

// validateID rejects malformed IDs up front; no site can have one.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("site %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
