package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/dbx"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/logging"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/qrimage"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/qrtoken"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/models"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/repositories/repomanager"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/timex"
)

// IssueResult is a minted token plus, when snapshots are enabled, a
// short-lived URL of its PNG rendering.
type IssueResult struct {
	*qrtoken.Issued
	SnapshotURL string
}

// IssuerService checks eligibility against the live user record before
// handing the profile to qrtoken.Issuer.
type IssuerService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *qrtoken.Issuer
	snapshots   SnapshotStore
	imageScale  int
	clock       timex.Clock
	logger      logging.Logger
}

// NewIssuerService wires an IssuerService. A nil snapshots store disables
// PNG uploads.
func NewIssuerService(db *sql.DB, m repomanager.RepositoryManager, issuer *qrtoken.Issuer,
	snapshots SnapshotStore, imageScale int, clock timex.Clock, logger logging.Logger) *IssuerService {
	return &IssuerService{
		db:          db,
		repomanager: m,
		issuer:      issuer,
		snapshots:   snapshots,
		imageScale:  imageScale,
		clock:       clock,
		logger:      logger.With("module", "issuer"),
	}
}

// eligible returns nil when u may hold an access code right now.
func (s *IssuerService) eligible(u *models.User) error {
	if !u.Verified() {
		return fmt.Errorf("%w: %w", common.ErrIneligible, common.ErrAccountNotVerified)
	}
	if !u.SubscriptionActiveAt(s.clock.Now()) {
		return fmt.Errorf("%w: %w", common.ErrIneligible, common.ErrSubscriptionExpired)
	}
	return nil
}

// Issue mints the next token for userID. The version bump, the issuance and
// the latest-token snapshot on the user row share one transaction.
func (s *IssuerService) Issue(ctx context.Context, userID string, withSnapshot bool) (*IssueResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", common.ErrInvalidArgument)
	}

	var issued *qrtoken.Issued
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		u, err := repo.GetByID(ctx, userID)
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: %w", common.ErrIneligible, common.ErrUserNotFound)
		}
		if err != nil {
			return err
		}

		if err := s.eligible(u); err != nil {
			return err
		}

		version, err := repo.IncrementQRVersion(ctx, u.ID)
		if err != nil {
			return err
		}

		issued, err = s.issuer.Issue(qrtoken.Profile{
			UserID:                 u.ID,
			FullName:               u.FullName,
			Email:                  u.Email,
			SubscriptionValidUntil: u.SubscriptionValidUntil(),
			Role:                   u.Role,
			InstitutionID:          u.InstitutionID,
			ProfilePicURL:          u.ProfilePicURL,
		}, version)
		if err != nil {
			return err
		}

		return repo.SaveLatestToken(ctx, u.ID, issued.Claim.QRID, issued.Payload, issued.Claim.ExpiresAt.Time())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "token issued",
		"user_id", userID,
		"qr_id", issued.Claim.QRID,
		"version", issued.Claim.Version,
		"expires_at", issued.Claim.ExpiresAt.String())

	res := &IssueResult{Issued: issued}
	if withSnapshot && s.snapshots != nil {
		url, err := s.snapshot(ctx, issued)
		if err != nil {
			s.logger.Warn(ctx, "snapshot upload failed", "qr_id", issued.Claim.QRID, "error", err)
		} else {
			res.SnapshotURL = url
		}
	}

	return res, nil
}

func (s *IssuerService) snapshot(ctx context.Context, issued *qrtoken.Issued) (string, error) {
	png, err := qrimage.PNG(issued.Payload, s.imageScale)
	if err != nil {
		return "", err
	}

	key := SnapshotKey(issued.Claim.UserID, issued.Claim.QRID, issued.Claim.GeneratedAt.Time())
	if err := s.snapshots.Put(ctx, key, png); err != nil {
		return "", err
	}

	return s.snapshots.PresignGet(ctx, key)
}
