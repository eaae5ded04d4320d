package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"bookwise/backend/internal/domain"
	"bookwise/backend/internal/store"
)

// ProviderRepo is the user directory plus the provider profile writes.
type ProviderRepo struct {
	db *bun.DB
}

func NewProviderRepo(db *bun.DB) *ProviderRepo {
	return &ProviderRepo{db: db}
}

func (r *ProviderRepo) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	var u domain.User
	err := r.db.NewSelect().
		Model(&u).
		Relation("Services", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("id ASC")
		}).
		Where("?TableAlias.id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, store.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *ProviderRepo) ListByCategory(ctx context.Context, category string) ([]domain.User, error) {
	var rows []domain.User
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Services", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("id ASC")
		}).
		Where("?TableAlias.role = ?", domain.RoleProvider).
		Where("?TableAlias.service_category = ?", category).
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateUser inserts a directory entry. Registration lives outside this
// service; this is used for seeding.
func (r *ProviderRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	m := domain.User{
		Role:            u.Role,
		Name:            u.Name,
		ServiceCategory: u.ServiceCategory,
		Availability:    u.Availability,
		CreatedAt:       u.CreatedAt,
	}
	if _, err := r.db.NewInsert().Model(&m).Returning("*").Exec(ctx); err != nil {
		return domain.User{}, mapWriteError(err)
	}
	return m, nil
}

func (r *ProviderRepo) UpdateAvailability(ctx context.Context, providerID int64, availability domain.WeeklyAvailability) error {
	m := domain.User{ID: providerID, Availability: availability}
	res, err := r.db.NewUpdate().
		Model(&m).
		Column("availability").
		WherePK().
		Where("role = ?", domain.RoleProvider).
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// AddService assigns the next id within the provider's catalogue. The
// catalogue is locked so concurrent adds cannot pick the same id.
func (r *ProviderRepo) AddService(ctx context.Context, svc domain.Service) (domain.Service, error) {
	out := svc
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", fmt.Sprintf("provider_services:%d", svc.ProviderID)).Exec(ctx); err != nil {
			return err
		}
		exists, err := tx.NewSelect().
			Model((*domain.User)(nil)).
			Where("?TableAlias.id = ?", svc.ProviderID).
			Where("?TableAlias.role = ?", domain.RoleProvider).
			Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return store.ErrNotFound
		}

		var maxID int64
		err = tx.NewSelect().
			Model((*domain.Service)(nil)).
			ColumnExpr("COALESCE(MAX(id), 0)").
			Where("provider_id = ?", svc.ProviderID).
			Scan(ctx, &maxID)
		if err != nil {
			return err
		}

		out.ID = maxID + 1
		if _, err := tx.NewInsert().Model(&out).Exec(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Service{}, mapWriteError(err)
	}
	return out, nil
}

func (r *ProviderRepo) DeleteService(ctx context.Context, providerID, serviceID int64) error {
	res, err := r.db.NewDelete().
		Model((*domain.Service)(nil)).
		Where("provider_id = ?", providerID).
		Where("id = ?", serviceID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
