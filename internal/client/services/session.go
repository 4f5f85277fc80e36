package services

import (
	"context"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/client/client"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/auth"
)

// Session describes the signed-in caller as read from the access token.
type Session struct {
	Identity  auth.Identity
	ExpiresAt time.Time
}

// SessionService covers connectivity and identity of the CLI.
type SessionService interface {
	// Ping returns the gateway version.
	Ping(ctx context.Context) (string, error)
	// Whoami decodes the configured access token without verifying it.
	Whoami() (Session, error)
	Close(ctx context.Context) error
}

type sessionService struct {
	client      client.Client
	accessToken string
}

func NewSessionService(c client.Client, accessToken string) SessionService {
	return &sessionService{client: c, accessToken: accessToken}
}

func (s *sessionService) Ping(ctx context.Context) (string, error) {
	return s.client.Ping(ctx)
}

func (s *sessionService) Whoami() (Session, error) {
	if s.accessToken == "" {
		return Session{}, client.ErrUnauthorized
	}

	id, exp, err := auth.PeekToken(s.accessToken)
	if err != nil {
		return Session{}, err
	}
	return Session{Identity: id, ExpiresAt: exp}, nil
}

func (s *sessionService) Close(ctx context.Context) error {
	return s.client.Close()
}
