// Package grpc exposes the access services over gRPC using the JSON codec
// registered by package api.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/api"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/logging"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/models"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/services"
	"google.golang.org/grpc"
)

type issuerService interface {
	Issue(ctx context.Context, userID string, withSnapshot bool) (*services.IssueResult, error)
}

type validatorService interface {
	Validate(ctx context.Context, req services.ScanRequest) (*services.Decision, error)
}

type recorderService interface {
	History(ctx context.Context, userID string, limit int) ([]models.ScanLog, error)
	Range(ctx context.Context, from, to time.Time) ([]models.ScanLog, error)
	Correct(ctx context.Context, originalID, adminID string, outcome common.Outcome, reason string) (*models.ScanLog, error)
}

type GRPCServer struct {
	address   string
	issuer    issuerService
	validator validatorService
	recorder  recorderService
	logger    logging.Logger
	jwtSecret []byte
	version   string
}

func NewGRPCServer(a string, l logging.Logger, is issuerService, vs validatorService, rs recorderService, secretKey, version string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		issuer:    is,
		validator: vs,
		recorder:  rs,
		jwtSecret: []byte(secretKey),
		version:   version,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterAccessServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
