package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wellsync/internal/model"

	"github.com/jackc/pgx/v5"
)

// OTPRepository defines operations for OTP records. Records are append-only;
// superseded codes are never deleted.
type OTPRepository interface {
	// CreateIfCooldownElapsed inserts a new record only if the user has no
	// record newer than the given threshold. Returns false without writing
	// when a newer record exists. The check and the insert are a single
	// statement so concurrent issuance requests cannot both pass the check.
	CreateIfCooldownElapsed(ctx context.Context, otp *model.OTP, threshold time.Time) (bool, error)
	FindLatestByUser(ctx context.Context, userID string) (*model.OTP, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type otpRepository struct {
	db DB
}

// NewOTPRepository creates a new OTPRepository
func NewOTPRepository(db DB) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) CreateIfCooldownElapsed(ctx context.Context, otp *model.OTP, threshold time.Time) (bool, error) {
	sql := `INSERT INTO otps (id, user_id, code, status, created_at)
            SELECT $1, $2, $3, $4, $5
            WHERE NOT EXISTS (
                SELECT 1 FROM otps WHERE user_id = $2 AND created_at > $6
            )`
	tag, err := r.db.Exec(ctx, sql, otp.ID, otp.UserID, otp.Code, otp.Status, otp.CreatedAt, threshold)
	if err != nil {
		return false, fmt.Errorf("failed to create otp: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// FindLatestByUser returns the most recently issued record for the user.
// Only this record is eligible for verification; older ones are superseded.
func (r *otpRepository) FindLatestByUser(ctx context.Context, userID string) (*model.OTP, error) {
	otp := &model.OTP{}
	sql := `SELECT id, user_id, code, status, created_at FROM otps
            WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`
	err := r.db.QueryRow(ctx, sql, userID).Scan(&otp.ID, &otp.UserID, &otp.Code, &otp.Status, &otp.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No OTP issued yet
		}
		return nil, fmt.Errorf("failed to find latest otp: %w", err)
	}
	return otp, nil
}

// UpdateStatus closes out a record as verified or expired
func (r *otpRepository) UpdateStatus(ctx context.Context, id, status string) error {
	sql := `UPDATE otps SET status = $2 WHERE id = $1`
	if _, err := r.db.Exec(ctx, sql, id, status); err != nil {
		return fmt.Errorf("failed to update otp status: %w", err)
	}
	return nil
}
