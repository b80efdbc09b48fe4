package configs

import "time"

// Tracking holds the knobs of the attribution pipeline.
type Tracking struct {
	// RateLimit is the number of accepted events per fingerprint per window.
	RateLimit int `env:"RATE_LIMIT" envDefault:"10"`
	// RateWindow is the trailing window the limiter evaluates.
	RateWindow time.Duration `env:"RATE_WINDOW" envDefault:"1m"`
	// LimiterSize caps how many identifiers the limiter tracks at once.
	LimiterSize int `env:"LIMITER_SIZE" envDefault:"500"`
	// RetentionDays is the horizon of the retention sweep; records whose
	// last click is older get removed. Zero disables the sweep.
	RetentionDays int `env:"RETENTION_DAYS" envDefault:"90"`
	// TrackTimeout bounds the fire-and-forget tracking work spawned by
	// the redirect endpoint.
	TrackTimeout time.Duration `env:"TRACK_TIMEOUT" envDefault:"3s"`
}
