package pipeline

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the feed pipeline settings.
type Config struct {
	// FileName is the fixed remote and local name of the feed.
	FileName string `mapstructure:"file_name" default:"TobaccoData.xml"`
	// WorkDir is where downloaded feeds are kept until processed. Empty uses the OS temp dir.
	WorkDir string `mapstructure:"work_dir" default:""`
	// Cron is the five-field schedule of the recurring download.
	Cron string `mapstructure:"cron" default:"0 */12 * * *"`
	// Retention is how many completed and failed jobs are kept.
	Retention int `mapstructure:"retention" default:"30"`
	// HighWater is how many decoded records may wait for reconciliation.
	HighWater int `mapstructure:"high_water" default:"16"`
	// LockTTL bounds how long a crashed worker can hold a feed lock.
	LockTTL time.Duration `mapstructure:"lock_ttl" default:"2h"`
}

// LocalPath returns where fileName is stored between download and processing.
func (c Config) LocalPath(fileName string) string {
	dir := c.WorkDir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, filepath.Base(fileName))
}

func (c Config) lockTTL() time.Duration {
	if c.LockTTL <= 0 {
		return 2 * time.Hour
	}
	return c.LockTTL
}
