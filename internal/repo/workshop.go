package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"workshophub/internal/model"
)

const workshopColumns = `id, title, description, organizer, organizer_user_id, instructor,
	       event_date, event_time, location, city, category, level, duration,
	       price, max_seats, available_seats, mode, status, featured, image_url,
	       created_at, updated_at`

func scanWorkshop(row interface{ Scan(...any) error }) (*model.Workshop, error) {
	var w model.Workshop
	if err := row.Scan(
		&w.ID,
		&w.Title,
		&w.Description,
		&w.Organizer,
		&w.OrganizerUserID,
		&w.Instructor,
		&w.EventDate,
		&w.EventTime,
		&w.Location,
		&w.City,
		&w.Category,
		&w.Level,
		&w.Duration,
		&w.Price,
		&w.MaxSeats,
		&w.AvailableSeats,
		&w.Mode,
		&w.Status,
		&w.Featured,
		&w.ImageURL,
		&w.CreatedAt,
		&w.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateWorkshop inserts a workshop with a full seat ledger
// (available_seats starts at max_seats) and attaches any tags in the
// same transaction.
func (r *repository) CreateWorkshop(ctx context.Context, w *model.Workshop) (int64, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO workshops (title, description, organizer, organizer_user_id, instructor,
		                       event_date, event_time, location, city, category, level, duration,
		                       price, max_seats, available_seats, mode, status, featured, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14, $15, $16, $17, $18)
		RETURNING id
	`, w.Title, w.Description, w.Organizer, w.OrganizerUserID, w.Instructor,
		w.EventDate, w.EventTime, w.Location, w.City, w.Category, w.Level, w.Duration,
		w.Price, w.MaxSeats, w.Mode, w.Status, w.Featured, w.ImageURL,
	).Scan(&id)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to insert workshop: %w", err)
	}

	for _, name := range w.Tags {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		var tagID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO tags (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, name).Scan(&tagID)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("failed to upsert tag %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO workshop_tags (workshop_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, id, tagID); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("failed to attach tag %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

func (r *repository) GetWorkshopByID(ctx context.Context, id int64) (*model.Workshop, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+workshopColumns+` FROM workshops WHERE id = $1
	`, id)

	w, err := scanWorkshop(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrWorkshopNotFound
		}
		return nil, fmt.Errorf("failed to get workshop: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT t.name
		FROM tags t
		JOIN workshop_tags wt ON wt.tag_id = t.id
		WHERE wt.workshop_id = $1
		ORDER BY t.name
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get workshop tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		w.Tags = append(w.Tags, name)
	}
	return w, rows.Err()
}

// UpdateWorkshop rewrites the editable fields. max_seats and the seat
// ledger are intentionally not touched here: capacity is fixed at
// creation and available_seats moves only through the registration
// workflow.
func (r *repository) UpdateWorkshop(ctx context.Context, w *model.Workshop) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE workshops
		SET title = $1, description = $2, organizer = $3, instructor = $4,
		    event_date = $5, event_time = $6, location = $7, city = $8,
		    category = $9, level = $10, duration = $11, price = $12,
		    mode = $13, status = $14, featured = $15, image_url = $16,
		    updated_at = NOW()
		WHERE id = $17
	`, w.Title, w.Description, w.Organizer, w.Instructor,
		w.EventDate, w.EventTime, w.Location, w.City,
		w.Category, w.Level, w.Duration, w.Price,
		w.Mode, w.Status, w.Featured, w.ImageURL, w.ID)
	if err != nil {
		return fmt.Errorf("failed to update workshop: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrWorkshopNotFound
	}
	return nil
}

// DeleteWorkshopTx removes a workshop that has no registrations.
// Rows with registration history are never hard-deleted.
func (r *repository) DeleteWorkshopTx(ctx context.Context, id int64) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var exists int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM workshops WHERE id = $1 FOR UPDATE
	`, id).Scan(&exists)
	if err != nil {
		_ = tx.Rollback()
		if err == sql.ErrNoRows {
			return ErrWorkshopNotFound
		}
		return fmt.Errorf("failed to lock workshop: %w", err)
	}

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM registrations WHERE workshop_id = $1
	`, id).Scan(&count)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to count registrations: %w", err)
	}
	if count > 0 {
		_ = tx.Rollback()
		return ErrHasRegistrations
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM workshop_tags WHERE workshop_id = $1`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to detach tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM workshops WHERE id = $1`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete workshop: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListWorkshops applies the catalog filters, a sort order and
// page/per_page pagination, returning the page and the total match
// count.
func (r *repository) ListWorkshops(ctx context.Context, f model.WorkshopFilter) ([]model.Workshop, int, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, fmt.Sprintf(
			"(title ILIKE %[1]s OR description ILIKE %[1]s OR instructor ILIKE %[1]s OR organizer ILIKE %[1]s)", p))
	}
	if f.Category != "" {
		where = append(where, "category = "+arg(f.Category))
	}
	if f.City != "" {
		where = append(where, "city = "+arg(f.City))
	}
	if f.Level != "" {
		where = append(where, "level = "+arg(f.Level))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	switch f.PriceFilter {
	case "free":
		where = append(where, "price = 0")
	case "paid":
		where = append(where, "price > 0")
	}
	if f.OrganizerUserID != 0 {
		where = append(where, "organizer_user_id = "+arg(f.OrganizerUserID))
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM workshops"+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count workshops: %w", err)
	}

	var order string
	switch f.SortBy {
	case "date":
		order = "event_date ASC"
	case "price_low":
		order = "price ASC"
	case "price_high":
		order = "price DESC"
	case "title":
		order = "title ASC"
	default:
		order = "created_at DESC"
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	perPage := f.PerPage
	if perPage < 1 {
		perPage = 10
	}

	query := "SELECT " + workshopColumns + " FROM workshops" + cond +
		" ORDER BY " + order +
		" LIMIT " + arg(perPage) + " OFFSET " + arg((page-1)*perPage)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list workshops: %w", err)
	}
	defer rows.Close()

	var workshops []model.Workshop
	for rows.Next() {
		w, err := scanWorkshop(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan workshop: %w", err)
		}
		workshops = append(workshops, *w)
	}
	return workshops, total, rows.Err()
}
