package repo

import (
	"context"
	"fmt"

	"workshophub/internal/model"
)

// DashboardStats computes the admin rollups fresh on every call. The
// confirmed count and revenue are derived views over the registration
// rows; the seat ledger on each workshop row stays the transactional
// source of truth for capacity.
func (r *repository) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var s model.DashboardStats

	counts := []struct {
		query string
		dst   *int
		args  []any
	}{
		{`SELECT COUNT(*) FROM workshops`, &s.TotalWorkshops, nil},
		{`SELECT COUNT(*) FROM workshops WHERE status = $1`, &s.ActiveWorkshops, []any{model.WorkshopActive}},
		{`SELECT COUNT(*) FROM registrations`, &s.TotalRegistrations, nil},
		{`SELECT COUNT(*) FROM registrations WHERE status = $1`, &s.ConfirmedRegistrations, []any{model.StatusConfirmed}},
		{`SELECT COUNT(*) FROM registrations WHERE status IN ($1, $2)`, &s.PendingRegistrations, []any{model.StatusPending, model.StatusPaymentPending}},
	}
	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("failed to compute dashboard counts: %w", err)
		}
	}

	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(w.price), 0)
		FROM workshops w
		JOIN registrations r ON r.workshop_id = w.id
		WHERE r.status = $1
	`, model.StatusConfirmed).Scan(&s.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to compute revenue: %w", err)
	}

	return &s, nil
}
