package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"workshophub/internal/model"
)

const registrationColumns = `id, user_id, workshop_id, registration_type, status, payment_status,
	       payment_verified, payment_method, transaction_id, upi_id, payment_screenshot_url,
	       notes, admin_notes, registered_at, confirmed_at`

func scanRegistration(row interface{ Scan(...any) error }) (*model.Registration, error) {
	var reg model.Registration
	if err := row.Scan(
		&reg.ID,
		&reg.UserID,
		&reg.WorkshopID,
		&reg.RegistrationType,
		&reg.Status,
		&reg.PaymentStatus,
		&reg.PaymentVerified,
		&reg.PaymentMethod,
		&reg.TransactionID,
		&reg.UpiID,
		&reg.ScreenshotRef,
		&reg.Notes,
		&reg.AdminNotes,
		&reg.RegisteredAt,
		&reg.ConfirmedAt,
	); err != nil {
		return nil, err
	}
	return &reg, nil
}

// SubmitRegistrationTx creates a registration for (user, workshop) in a
// single transaction. The workshop row is locked for the whole
// transaction, so the duplicate check and the seat decrement on the
// auto-confirm path cannot race with concurrent submissions or
// approvals.
func (r *repository) SubmitRegistrationTx(ctx context.Context, reg *model.Registration) (*model.Registration, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var (
		price     float64
		mode      string
		wstatus   string
		available int
	)
	err = tx.QueryRowContext(ctx, `
		SELECT price, mode, status, available_seats
		FROM workshops
		WHERE id = $1
		FOR UPDATE
	`, reg.WorkshopID).Scan(&price, &mode, &wstatus, &available)
	if err != nil {
		_ = tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, ErrWorkshopNotFound
		}
		return nil, fmt.Errorf("failed to lock workshop: %w", err)
	}

	if wstatus != model.WorkshopActive {
		_ = tx.Rollback()
		return nil, ErrWorkshopNotActive
	}
	if available <= 0 {
		_ = tx.Rollback()
		return nil, ErrSoldOut
	}

	var existing int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM registrations
		WHERE user_id = $1 AND workshop_id = $2
	`, reg.UserID, reg.WorkshopID).Scan(&existing)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to check duplicate registration: %w", err)
	}
	if existing > 0 {
		_ = tx.Rollback()
		return nil, ErrDuplicateRegistration
	}

	reg.RegistrationType = mode
	reg.Status, reg.PaymentStatus = model.InitialStatus(price, mode)

	var confirmedAt any
	if reg.Status == model.StatusConfirmed {
		now := time.Now()
		reg.ConfirmedAt = &now
		confirmedAt = now
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO registrations (user_id, workshop_id, registration_type, status, payment_status,
		                           payment_method, transaction_id, upi_id, payment_screenshot_url,
		                           notes, confirmed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, registered_at
	`, reg.UserID, reg.WorkshopID, reg.RegistrationType, reg.Status, reg.PaymentStatus,
		reg.PaymentMethod, reg.TransactionID, reg.UpiID, reg.ScreenshotRef,
		reg.Notes, confirmedAt,
	).Scan(&reg.ID, &reg.RegisteredAt)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	if reg.Status == model.StatusConfirmed {
		res, err := tx.ExecContext(ctx, `
			UPDATE workshops
			SET available_seats = available_seats - 1, updated_at = NOW()
			WHERE id = $1 AND available_seats > 0
		`, reg.WorkshopID)
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to decrement seats: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			_ = tx.Rollback()
			return nil, ErrSoldOut
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return reg, nil
}

// ApproveRegistrationTx confirms a pending registration and takes one
// seat off the workshop ledger. The decrement is conditional on the
// in-transaction seat count, so of two concurrent approvals for the
// last seat exactly one commits.
func (r *repository) ApproveRegistrationTx(ctx context.Context, registrationID int64, adminNotes string) (*model.Registration, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var (
		workshopID int64
		status     string
		payStatus  string
		verified   bool
	)
	err = tx.QueryRowContext(ctx, `
		SELECT workshop_id, status, payment_status, payment_verified
		FROM registrations
		WHERE id = $1
		FOR UPDATE
	`, registrationID).Scan(&workshopID, &status, &payStatus, &verified)
	if err != nil {
		_ = tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to lock registration: %w", err)
	}

	if !model.Awaiting(status) {
		_ = tx.Rollback()
		return nil, ErrInvalidStatus
	}

	var price float64
	err = tx.QueryRowContext(ctx, `
		SELECT price FROM workshops WHERE id = $1 FOR UPDATE
	`, workshopID).Scan(&price)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to lock workshop: %w", err)
	}

	if price > 0 && !verified {
		_ = tx.Rollback()
		return nil, ErrPaymentNotVerified
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE workshops
		SET available_seats = available_seats - 1, updated_at = NOW()
		WHERE id = $1 AND available_seats > 0
	`, workshopID)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to decrement seats: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return nil, ErrSeatsExhausted
	}

	newPayStatus := payStatus
	if price > 0 {
		newPayStatus = model.PaymentCompleted
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE registrations
		SET status = $1, payment_status = $2, admin_notes = $3, confirmed_at = NOW()
		WHERE id = $4
		RETURNING `+registrationColumns+`
	`, model.StatusConfirmed, newPayStatus, adminNotes, registrationID)

	reg, err := scanRegistration(row)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to confirm registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return reg, nil
}

// RejectRegistrationTx closes a pending registration without touching
// the seat ledger: a seat is never taken before confirmation.
func (r *repository) RejectRegistrationTx(ctx context.Context, registrationID int64, adminNotes string) (*model.Registration, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var status string
	err = tx.QueryRowContext(ctx, `
		SELECT status FROM registrations WHERE id = $1 FOR UPDATE
	`, registrationID).Scan(&status)
	if err != nil {
		_ = tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to lock registration: %w", err)
	}

	if !model.Awaiting(status) {
		_ = tx.Rollback()
		return nil, ErrInvalidStatus
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE registrations
		SET status = $1, admin_notes = $2
		WHERE id = $3
		RETURNING `+registrationColumns+`
	`, model.StatusRejected, adminNotes, registrationID)

	reg, err := scanRegistration(row)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to reject registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return reg, nil
}

// VerifyPaymentTx marks a paid registration's payment evidence as
// checked by an admin. Verifying twice is a no-op returning the
// current row.
func (r *repository) VerifyPaymentTx(ctx context.Context, registrationID int64) (*model.Registration, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var (
		payStatus string
		verified  bool
		price     float64
	)
	err = tx.QueryRowContext(ctx, `
		SELECT r.payment_status, r.payment_verified, w.price
		FROM registrations r
		JOIN workshops w ON w.id = r.workshop_id
		WHERE r.id = $1
		FOR UPDATE OF r
	`, registrationID).Scan(&payStatus, &verified, &price)
	if err != nil {
		_ = tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to lock registration: %w", err)
	}

	if verified {
		row := tx.QueryRowContext(ctx, `
			SELECT `+registrationColumns+` FROM registrations WHERE id = $1
		`, registrationID)
		reg, err := scanRegistration(row)
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to reload registration: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return reg, nil
	}

	if price == 0 || payStatus != model.PaymentPending {
		_ = tx.Rollback()
		return nil, ErrPaymentNotRequired
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE registrations
		SET payment_verified = TRUE
		WHERE id = $1
		RETURNING `+registrationColumns+`
	`, registrationID)

	reg, err := scanRegistration(row)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to verify payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return reg, nil
}

func (r *repository) GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+registrationColumns+` FROM registrations WHERE id = $1
	`, id)

	reg, err := scanRegistration(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

func (r *repository) ListUserRegistrations(ctx context.Context, userID int64) ([]model.Registration, error) {
	return r.listRegistrations(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE user_id = $1
		ORDER BY registered_at DESC
	`, userID)
}

func (r *repository) ListWorkshopRegistrations(ctx context.Context, workshopID int64) ([]model.Registration, error) {
	return r.listRegistrations(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE workshop_id = $1
		ORDER BY registered_at ASC
	`, workshopID)
}

func (r *repository) ListPendingRegistrations(ctx context.Context) ([]model.Registration, error) {
	return r.listRegistrations(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE status IN ($1, $2)
		ORDER BY registered_at ASC
	`, model.StatusPending, model.StatusPaymentPending)
}

func (r *repository) listRegistrations(ctx context.Context, query string, args ...any) ([]model.Registration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}
