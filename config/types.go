package config

type AppConfig struct {
	DBDriver   string           `yaml:"db_driver" env:"PRESSWATCH_DB_DRIVER" env-default:"sqlite"`
	DBURL      string           `yaml:"db_url" env:"PRESSWATCH_DB_URL" env-default:"data/presswatch.db"`
	ListenAddr string           `yaml:"listen_addr" env:"PRESSWATCH_LISTEN_ADDR" env-default:"0.0.0.0:5000"`
	AppEnv     string           `yaml:"app_env" env:"PRESSWATCH_APP_ENV"`
	Uploads    UploadsConfig    `yaml:"uploads"`
	Reconciler ReconcilerConfig `yaml:"reconciler"`
}

type UploadsConfig struct {
	StorageDir     string `yaml:"storage_dir" env:"PRESSWATCH_UPLOADS_STORAGE_DIR" env-default:"uploads"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" env:"PRESSWATCH_UPLOADS_MAX_BYTES" env-default:"52428800"`
	// Blobs older than this with no incident_files row are eligible for the
	// orphan sweep.
	OrphanGraceMinutes int `yaml:"orphan_grace_minutes" env:"PRESSWATCH_UPLOADS_ORPHAN_GRACE_MINUTES" env-default:"60"`
}

type ReconcilerConfig struct {
	Enabled bool `yaml:"enabled" env:"PRESSWATCH_RECONCILER_ENABLED" env-default:"true"`
	// Cron expression for the scheduled platform-count recompute.
	Schedule string `yaml:"schedule" env:"PRESSWATCH_RECONCILER_SCHEDULE" env-default:"@every 15m"`
	// Cron expression for the orphan-blob sweep.
	SweepSchedule string `yaml:"sweep_schedule" env:"PRESSWATCH_RECONCILER_SWEEP_SCHEDULE" env-default:"@hourly"`
}

func (c *AppConfig) IsSQLite() bool {
	if c == nil {
		return false
	}
	return c.DBDriver == "" || c.DBDriver == "sqlite" || c.DBDriver == "sqlite3"
}
