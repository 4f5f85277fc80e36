package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/api"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/client"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/models"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/repositories/metadata"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/repositories/tokens"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/cryptox"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/dbx"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/logging"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/netx"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/qrtoken"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/timex"
)

const cacheSaltKey = "cache_salt"

var (
	ErrTokenMismatch = errors.New("gateway returned a token that does not match its metadata")
	ErrNoSnapshot    = errors.New("no snapshot for the current token")
)

// HolderService manages the holder's access code.
//
// Contract:
//   - Issue: request a fresh code, verify it and cache it sealed.
//   - Latest: return the newest cached code; expired codes are refused.
//   - Watch: issue now and again at every refresh point until ctx ends.
//   - Snapshot: download the PNG the gateway stored for the latest code.
//   - Forget: wipe the local cache.
type HolderService interface {
	Issue(ctx context.Context, withSnapshot bool) (*models.HeldToken, error)
	Latest(ctx context.Context) (*models.HeldToken, error)
	Watch(ctx context.Context, fn func(*models.HeldToken)) error
	Snapshot(ctx context.Context) ([]byte, error)
	Forget(ctx context.Context) error
}

type holderService struct {
	client      client.Client
	db          *sql.DB
	codec       *qrtoken.Codec
	accessToken string
	clock       timex.Clock
	logger      logging.Logger
	httpClient  *http.Client

	mu  sync.Mutex
	key []byte
}

// NewHolderService constructs a HolderService. codec may be nil, in which
// case issued payloads are only checked for envelope shape.
func NewHolderService(c client.Client, db *sql.DB, codec *qrtoken.Codec, accessToken string, clock timex.Clock, logger logging.Logger) HolderService {
	return &holderService{
		client:      c,
		db:          db,
		codec:       codec,
		accessToken: accessToken,
		clock:       clock,
		logger:      logger.With("module", "holder"),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *holderService) getTokensRepo() tokens.Repository {
	return tokens.NewSQLiteRepository(s.db)
}

func (s *holderService) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

// cacheKey derives the sealing key once per process. The salt is created
// on first use and kept in metadata.
func (s *holderService) cacheKey(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key != nil {
		return s.key, nil
	}

	salt, err := s.getMetadataRepo().SetIfAbsent(ctx, cacheSaltKey, common.GenerateRandByteArray(cryptox.SaltSize))
	if err != nil {
		return nil, fmt.Errorf("cache salt: %w", err)
	}

	s.key = cryptox.DeriveCacheKey([]byte(s.accessToken), salt)
	return s.key, nil
}

// verify checks the payload the gateway handed out. With a codec the
// payload is decoded and must agree with the response metadata.
func (s *holderService) verify(resp *api.IssueTokenResponse) error {
	if s.codec == nil {
		_, err := qrtoken.ParsePayload(resp.Payload)
		return err
	}

	_, claim, err := s.codec.DecodePayload(resp.Payload)
	if err != nil {
		return err
	}
	if claim.QRID != resp.QRID || claim.Version != resp.Version || !claim.ExpiresAt.Time().Equal(resp.ExpiresAt) {
		return ErrTokenMismatch
	}
	return nil
}

func (s *holderService) Issue(ctx context.Context, withSnapshot bool) (*models.HeldToken, error) {
	resp, err := s.client.IssueToken(ctx, withSnapshot)
	if err != nil {
		return nil, err
	}

	if err := s.verify(resp); err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}

	held := &models.HeldToken{
		Payload:     resp.Payload,
		QRID:        resp.QRID,
		Version:     resp.Version,
		GeneratedAt: resp.GeneratedAt.UTC(),
		ExpiresAt:   resp.ExpiresAt.UTC(),
		RefreshAt:   resp.RefreshAt.UTC(),
		SnapshotURL: resp.SnapshotURL,
	}

	if err := s.save(ctx, held); err != nil {
		return nil, err
	}

	if n, err := s.getTokensRepo().DeleteExpired(ctx, s.clock.Now()); err != nil {
		s.logger.Warn(ctx, "prune failed", "error", err)
	} else if n > 0 {
		s.logger.Debug(ctx, "pruned expired tokens", "count", n)
	}

	s.logger.Info(ctx, "token cached", "qr_id", held.QRID, "version", held.Version, "expires_at", held.ExpiresAt)
	return held, nil
}

func (s *holderService) save(ctx context.Context, held *models.HeldToken) error {
	key, err := s.cacheKey(ctx)
	if err != nil {
		return err
	}

	sealed, err := cryptox.SealJSON(held, key)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}

	return s.getTokensRepo().Save(ctx, &models.CachedToken{
		QRID:      held.QRID,
		Version:   held.Version,
		ExpiresAt: held.ExpiresAt,
		Sealed:    sealed,
		CreatedAt: s.clock.Now(),
	})
}

// Latest returns client.ErrLocalDataNotAvailable when nothing usable is
// cached, including a cache sealed under a different access token.
func (s *holderService) Latest(ctx context.Context) (*models.HeldToken, error) {
	row, err := s.getTokensRepo().Latest(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, client.ErrLocalDataNotAvailable
		}
		return nil, err
	}

	key, err := s.cacheKey(ctx)
	if err != nil {
		return nil, err
	}

	var held models.HeldToken
	if err := cryptox.OpenJSON(row.Sealed, key, &held); err != nil {
		s.logger.Warn(ctx, "cached token unreadable", "qr_id", row.QRID, "error", err)
		return nil, client.ErrLocalDataNotAvailable
	}

	if held.Expired(s.clock.Now()) {
		return nil, common.ErrTokenExpired
	}

	return &held, nil
}

// Watch issues a code, hands it to fn and sleeps until its refresh point,
// repeating until ctx is cancelled. An issue failure stops the loop.
func (s *holderService) Watch(ctx context.Context, fn func(*models.HeldToken)) error {
	for {
		held, err := s.Issue(ctx, false)
		if err != nil {
			return err
		}
		fn(held)

		wait := held.RefreshAt.Sub(s.clock.Now())
		if wait < 0 {
			wait = 0
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(wait):
		}
	}
}

func (s *holderService) Snapshot(ctx context.Context) ([]byte, error) {
	held, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if held.SnapshotURL == "" {
		return nil, ErrNoSnapshot
	}

	return netx.Download(ctx, s.httpClient, held.SnapshotURL)
}

func (s *holderService) Forget(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := tokens.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return metadata.NewSQLiteRepository(tx).Clear(ctx)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	common.WipeByteArray(s.key)
	s.key = nil
	s.mu.Unlock()
	return nil
}
