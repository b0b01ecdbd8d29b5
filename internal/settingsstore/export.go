package settingsstore

import (
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avolkau/daybook/internal/database/settings"
	"github.com/avolkau/daybook/internal/entities"
)

// DefaultExportSchedule runs the export daily at 03:00.
const DefaultExportSchedule = "0 3 * * *"

// ExportConfig is the effective markdown export configuration.
type ExportConfig struct {
	Enabled  bool   `json:"enabled"`
	Dir      string `json:"dir"`
	Schedule string `json:"schedule"`
}

// ExportStatus records the outcome of the last export run.
type ExportStatus struct {
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	Status    string     `json:"status,omitempty"`
}

// ExportStore resolves export settings with priority database > environment
// > default.
type ExportStore struct {
	settings *settings.Repository
}

// NewExportStore creates an export settings store.
func NewExportStore(settingsRepo *settings.Repository) *ExportStore {
	return &ExportStore{settings: settingsRepo}
}

// GetConfig returns the effective export configuration.
func (s *ExportStore) GetConfig() ExportConfig {
	return ExportConfig{
		Enabled:  s.getEnabled(),
		Dir:      s.getDir(),
		Schedule: s.getSchedule(),
	}
}

// ExportDir resolves the current export target directory.
func (s *ExportStore) ExportDir() string {
	return s.getDir()
}

func (s *ExportStore) getEnabled() bool {
	setting, err := s.settings.GetSetting(entities.SettingKeyExportEnabled)
	if err == nil && setting != nil && setting.Value != "" {
		return setting.Value == "true" || setting.Value == "1"
	}
	if envVal := os.Getenv("EXPORT_ENABLED"); envVal != "" {
		return envVal == "true" || envVal == "1"
	}
	return false
}

func (s *ExportStore) getDir() string {
	setting, err := s.settings.GetSetting(entities.SettingKeyExportDir)
	if err == nil && setting != nil && setting.Value != "" {
		return setting.Value
	}
	return os.Getenv("EXPORT_DIR")
}

func (s *ExportStore) getSchedule() string {
	setting, err := s.settings.GetSetting(entities.SettingKeyExportSchedule)
	if err == nil && setting != nil && setting.Value != "" {
		return setting.Value
	}
	if envVal := os.Getenv("EXPORT_SCHEDULE"); envVal != "" {
		return envVal
	}
	return DefaultExportSchedule
}

// SetEnabled saves the enabled flag to the database.
func (s *ExportStore) SetEnabled(enabled bool) error {
	return s.settings.SetSetting(entities.SettingKeyExportEnabled, strconv.FormatBool(enabled))
}

// SetDir saves the export directory to the database.
func (s *ExportStore) SetDir(dir string) error {
	return s.settings.SetSetting(entities.SettingKeyExportDir, dir)
}

// SetSchedule saves the cron schedule to the database.
func (s *ExportStore) SetSchedule(schedule string) error {
	if err := ValidateCronSchedule(schedule); err != nil {
		return err
	}
	return s.settings.SetSetting(entities.SettingKeyExportSchedule, schedule)
}

// SetStatus records the outcome of an export run.
func (s *ExportStore) SetStatus(status string) error {
	if err := s.settings.SetSetting(entities.SettingKeyExportLastAt, time.Now().Format(time.RFC3339)); err != nil {
		return err
	}
	return s.settings.SetSetting(entities.SettingKeyExportLastStatus, status)
}

// GetStatus returns the recorded outcome of the last export run.
func (s *ExportStore) GetStatus() (ExportStatus, error) {
	status := ExportStatus{}

	atSetting, err := s.settings.GetSetting(entities.SettingKeyExportLastAt)
	if err != nil {
		return status, err
	}
	if atSetting != nil && atSetting.Value != "" {
		if at, err := time.Parse(time.RFC3339, atSetting.Value); err == nil {
			status.LastRunAt = &at
		}
	}

	statusSetting, err := s.settings.GetSetting(entities.SettingKeyExportLastStatus)
	if err != nil {
		return status, err
	}
	if statusSetting != nil {
		status.Status = statusSetting.Value
	}

	return status, nil
}

// ValidateCronSchedule checks a standard 5-field cron expression.
func ValidateCronSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(schedule)
	return err
}

// NextRunTime returns the next firing time for a schedule.
func NextRunTime(schedule string) (*time.Time, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(time.Now())
	return &next, nil
}
