package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"signpost/internal/domain"
	"signpost/internal/domain/models"
	"signpost/internal/domain/repositories"
	"signpost/internal/sidebar"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSiteRepository implements the SiteRepository interface
type PostgresSiteRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewSiteRepository creates a new site repository
func NewSiteRepository(config *RepositoryConfig) repositories.SiteRepository {
	return &PostgresSiteRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// storedSidebar is the JSONB row shape of one sidebar. JSONB does not keep
// object key order, so sidebars are stored as an array.
type storedSidebar struct {
	Name  string         `json:"name"`
	Items []sidebar.Item `json:"items"`
}

func encodeConfig(cfg sidebar.Config) ([]byte, error) {
	rows := make([]storedSidebar, len(cfg.Sidebars))
	for i, sb := range cfg.Sidebars {
		items := sb.Items
		if items == nil {
			items = []sidebar.Item{}
		}
		rows[i] = storedSidebar{Name: sb.Name, Items: items}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode site config: %w", err)
	}
	return data, nil
}

func decodeConfig(data []byte) (sidebar.Config, error) {
	var rows []storedSidebar
	if err := json.Unmarshal(data, &rows); err != nil {
		return sidebar.Config{}, fmt.Errorf("decode site config: %w", err)
	}
	cfg := sidebar.Config{Sidebars: make([]sidebar.Sidebar, len(rows))}
	for i, row := range rows {
		cfg.Sidebars[i] = sidebar.Sidebar{Name: row.Name, Items: row.Items}
	}
	return cfg, nil
}

const siteColumns = "id, name, config, created_by, created_at, updated_at, deleted_at"

func scanSite(row pgx.Row) (*models.Site, error) {
	var (
		site models.Site
		raw  []byte
	)
	err := row.Scan(
		&site.ID,
		&site.Name,
		&raw,
		&site.CreatedBy,
		&site.CreatedAt,
		&site.UpdatedAt,
		&site.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	if site.Config, err = decodeConfig(raw); err != nil {
		return nil, err
	}
	return &site, nil
}

// Create creates a new site
func (r *PostgresSiteRepository) Create(ctx context.Context, site *models.Site) error {
	raw, err := encodeConfig(site.Config)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, config, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, r.tables.Sites)

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		site.ID,
		site.Name,
		raw,
		site.CreatedBy,
		site.CreatedAt,
		site.UpdatedAt,
	).Scan(&site.CreatedAt, &site.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return r.conflict(ctx, site.Name)
		}
		return fmt.Errorf("create site: %w", err)
	}

	return nil
}

// GetByID retrieves a site by ID
func (r *PostgresSiteRepository) GetByID(ctx context.Context, id string) (*models.Site, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND deleted_at IS NULL
	`, siteColumns, r.tables.Sites)

	site, err := scanSite(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("site %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get site: %w", err)
	}

	return site, nil
}

// GetByName retrieves a site by name
func (r *PostgresSiteRepository) GetByName(ctx context.Context, name string) (*models.Site, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE name = $1 AND deleted_at IS NULL
	`, siteColumns, r.tables.Sites)

	site, err := scanSite(GetExecutor(ctx, r.pool).QueryRow(ctx, query, name))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("site %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get site by name: %w", err)
	}

	return site, nil
}

// List retrieves all sites, ordered by updated_at DESC
func (r *PostgresSiteRepository) List(ctx context.Context) ([]models.Site, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE deleted_at IS NULL
		ORDER BY updated_at DESC
	`, siteColumns, r.tables.Sites)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	sites := []models.Site{}
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		sites = append(sites, *site)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sites: %w", err)
	}

	return sites, nil
}

// Update updates a site's name, config and updated_at timestamp
func (r *PostgresSiteRepository) Update(ctx context.Context, site *models.Site) error {
	raw, err := encodeConfig(site.Config)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, config = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`, r.tables.Sites)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		site.Name,
		raw,
		site.UpdatedAt,
		site.ID,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return r.conflict(ctx, site.Name)
		}
		if IsPgInvalidTextError(err) {
			return fmt.Errorf("site %s: %w", site.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update site: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("site %s: %w", site.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete soft-deletes a site by setting deleted_at timestamp and returns the deleted site
func (r *PostgresSiteRepository) Delete(ctx context.Context, id string) (*models.Site, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING %s
	`, r.tables.Sites, siteColumns)

	site, err := scanSite(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("site %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("delete site: %w", err)
	}

	return site, nil
}

// conflict builds the error for a duplicate site name, pointing at the live site.
// The lookup goes to the pool, not the context transaction: after the unique
// violation postgres rejects every statement in that transaction.
func (r *PostgresSiteRepository) conflict(ctx context.Context, name string) error {
	query := fmt.Sprintf(`
		SELECT id
		FROM %s
		WHERE name = $1 AND deleted_at IS NULL
	`, r.tables.Sites)

	var existingID string
	if err := r.pool.QueryRow(ctx, query, name).Scan(&existingID); err != nil {
		return fmt.Errorf("site %q already exists: %w", name, domain.ErrConflict)
	}
	return &domain.ConflictError{
		Message:      fmt.Sprintf("site %q already exists", name),
		ResourceType: "site",
		ResourceID:   existingID,
	}
}
