package models

// Quota is the per-user storage ceiling.
type Quota struct {
	UserID   string
	MaxBytes int64
}

// QuotaUsage reports used bytes against the ceiling.
type QuotaUsage struct {
	UsedBytes int64
	MaxBytes  int64
}
