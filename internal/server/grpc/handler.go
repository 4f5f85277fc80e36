package grpc

import (
	"context"
	"errors"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/api"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/models"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC codes. Unknown errors are not
// echoed to the caller.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrIneligible):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, "forbidden")
	case errors.Is(err, common.ErrServiceUnavailable), errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.Unavailable, common.ErrServiceUnavailable.Error())
	}
	return status.Error(codes.Internal, "internal error")
}

func (s *GRPCServer) caller(ctx context.Context) (string, bool, error) {
	id, ok := identityFromContext(ctx)
	if !ok {
		return "", false, status.Error(codes.Unauthenticated, "unauthorized")
	}
	return id.UserID, id.IsAdmin(), nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {

	return &api.PingResponse{Status: "OK", Version: s.version}, nil

}

func (s *GRPCServer) IssueToken(ctx context.Context, req *api.IssueTokenRequest) (*api.IssueTokenResponse, error) {

	userID, _, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.issuer.Issue(ctx, userID, req.WithSnapshot)
	if err != nil {
		if !errors.Is(err, common.ErrIneligible) {
			s.logger.Error(ctx, "issue failed", "user_id", userID, "error", err)
		}
		return nil, toStatus(err)
	}

	return &api.IssueTokenResponse{
		Payload:     res.Payload,
		QRID:        res.Claim.QRID,
		Version:     res.Claim.Version,
		GeneratedAt: res.Claim.GeneratedAt.Time(),
		ExpiresAt:   res.Claim.ExpiresAt.Time(),
		RefreshAt:   res.RefreshAt,
		SnapshotURL: res.SnapshotURL,
	}, nil

}

func (s *GRPCServer) ValidateScan(ctx context.Context, req *api.ValidateScanRequest) (*api.ValidateScanResponse, error) {

	adminID, _, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	d, err := s.validator.Validate(ctx, services.ScanRequest{
		Payload:  req.Payload,
		ScanType: common.ScanType(req.ScanType),
		AdminID:  adminID,
		Location: req.Location,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return &api.ValidateScanResponse{
		Granted:   d.Granted,
		Reason:    d.Reason,
		UserID:    d.UserID,
		FullName:  d.FullName,
		QRID:      d.QRID,
		ScanLogID: d.ScanLogID,
		ScanTime:  d.ScanTime,
		Duplicate: d.Duplicate,
	}, nil

}

func (s *GRPCServer) ScanHistory(ctx context.Context, req *api.ScanHistoryRequest) (*api.ScanListResponse, error) {

	callerID, admin, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	userID := req.UserID
	if userID == "" {
		userID = callerID
	}
	if userID != callerID && !admin {
		return nil, status.Error(codes.PermissionDenied, "admin only")
	}

	logs, err := s.recorder.History(ctx, userID, req.Limit)
	if err != nil {
		return nil, toStatus(err)
	}

	return &api.ScanListResponse{Scans: toAPIScanLogs(logs)}, nil

}

func (s *GRPCServer) ListScans(ctx context.Context, req *api.ListScansRequest) (*api.ScanListResponse, error) {

	logs, err := s.recorder.Range(ctx, req.From, req.To)
	if err != nil {
		return nil, toStatus(err)
	}

	return &api.ScanListResponse{Scans: toAPIScanLogs(logs)}, nil

}

func (s *GRPCServer) CorrectScan(ctx context.Context, req *api.CorrectScanRequest) (*api.CorrectScanResponse, error) {

	adminID, _, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	l, err := s.recorder.Correct(ctx, req.ScanID, adminID, common.Outcome(req.Outcome), req.Reason)
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "scan corrected", "scan_log_id", l.ID, "corrects_id", l.CorrectsID, "admin_id", adminID)
	return &api.CorrectScanResponse{Scan: toAPIScanLog(*l)}, nil

}

func toAPIScanLog(l models.ScanLog) api.ScanLog {
	return api.ScanLog{
		ID:         l.ID,
		UserID:     l.UserID,
		ScanType:   string(l.ScanType),
		Outcome:    string(l.Outcome),
		Reason:     l.Reason,
		ScannedBy:  l.ScannedBy,
		Location:   l.Location,
		QRID:       l.QRID,
		ScanTime:   l.ScanTime,
		CorrectsID: l.CorrectsID,
	}
}

func toAPIScanLogs(logs []models.ScanLog) []api.ScanLog {
	out := make([]api.ScanLog, 0, len(logs))
	for _, l := range logs {
		out = append(out, toAPIScanLog(l))
	}
	return out
}
