package cmd

import "time"

// Config carries everything the application reads from the environment.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// StorageDir is the root of the disk-backed object store for uploads.
	StorageDir string

	// ImageWorkerCount sizes the image processing pool.
	ImageWorkerCount int

	// ImagePollInterval is the safety-net poll for missed wake signals.
	ImagePollInterval time.Duration

	// StaleJobThreshold is the processing age after which a claimed job is
	// considered abandoned and returned to pending.
	StaleJobThreshold time.Duration

	// StaleSweepSchedule is the cron expression (with seconds) for the
	// stale job sweep.
	StaleSweepSchedule string

	// MaxImageDimension bounds the longest side of processed renditions.
	MaxImageDimension int
}
