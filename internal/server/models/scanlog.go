package models

import (
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
)

// ScanLog is one validation decision. Rows are never updated or deleted;
// a correction is a new row whose CorrectsID points at the original.
type ScanLog struct {
	ID       string
	UserID   string
	ScanType common.ScanType
	Outcome  common.Outcome
	// Reason is empty for granted scans.
	Reason     string
	ScannedBy  string
	Location   string
	QRID       string
	ScanTime   time.Time
	CorrectsID string
}
