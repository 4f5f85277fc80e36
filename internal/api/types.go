package api

import "time"

type PingRequest struct{}

type PingResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// IssueTokenRequest asks for a fresh access code for the calling holder.
type IssueTokenRequest struct {
	// WithSnapshot requests a presigned URL of the rendered PNG when the
	// gateway has object storage configured.
	WithSnapshot bool `json:"withSnapshot,omitempty"`
}

type IssueTokenResponse struct {
	Payload     string    `json:"payload"`
	QRID        string    `json:"qrId"`
	Version     int64     `json:"version"`
	GeneratedAt time.Time `json:"generatedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
	RefreshAt   time.Time `json:"refreshAt"`
	SnapshotURL string    `json:"snapshotUrl,omitempty"`
}

// ValidateScanRequest carries a scanned QR string. The admin identity comes
// from the caller's access token.
type ValidateScanRequest struct {
	Payload  string `json:"payload"`
	ScanType string `json:"scanType"`
	Location string `json:"location,omitempty"`
}

type ValidateScanResponse struct {
	Granted   bool      `json:"granted"`
	Reason    string    `json:"reason,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	FullName  string    `json:"fullName,omitempty"`
	QRID      string    `json:"qrId,omitempty"`
	ScanLogID string    `json:"scanLogId,omitempty"`
	ScanTime  time.Time `json:"scanTime"`
	Duplicate bool      `json:"duplicate,omitempty"`
}

type ScanLog struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId,omitempty"`
	ScanType   string    `json:"scanType"`
	Outcome    string    `json:"outcome"`
	Reason     string    `json:"reason,omitempty"`
	ScannedBy  string    `json:"scannedBy"`
	Location   string    `json:"location,omitempty"`
	QRID       string    `json:"qrId,omitempty"`
	ScanTime   time.Time `json:"scanTime"`
	CorrectsID string    `json:"correctsId,omitempty"`
}

type ScanHistoryRequest struct {
	// UserID defaults to the caller. Only admins may read another user.
	UserID string `json:"userId,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

type ListScansRequest struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type ScanListResponse struct {
	Scans []ScanLog `json:"scans"`
}

type CorrectScanRequest struct {
	ScanID  string `json:"scanId"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason"`
}

type CorrectScanResponse struct {
	Scan ScanLog `json:"scan"`
}
