package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"srcpath/internal/logging"
)

var (
	logger = logging.GetLogger().WithPrefix("state")
)

const defaultBackupCount = 5

// Manager handles loading and saving resolver profiles
type Manager struct {
	profilePath string
	backupDir   string
	backupCount int
	mu          sync.RWMutex
}

// NewManager creates a new profile manager for the given file path.
// It ensures the profile directory exists and is writable.
func NewManager(profilePath string) (*Manager, error) {
	logger.Debug("Creating new profile manager with path: %s", profilePath)

	absPath, err := filepath.Abs(profilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve profile path %s: %w", profilePath, err)
	}
	logger.Debug("Resolved profile path: %s", absPath)

	// Create parent directory if it doesn't exist
	profileDir := filepath.Dir(absPath)
	if mkdirErr := os.MkdirAll(profileDir, 0755); mkdirErr != nil {
		return nil, fmt.Errorf("failed to create profile directory %s: %w", profileDir, mkdirErr)
	}

	// Try to create an empty file to verify we have write permissions
	f, writeErr := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE, 0644)
	if writeErr != nil {
		return nil, fmt.Errorf("failed to create profile file %s: %w", absPath, writeErr)
	}
	f.Close()

	backupDir := filepath.Join(profileDir, ".srcpath-backups")
	if backupDirErr := os.MkdirAll(backupDir, 0755); backupDirErr != nil {
		return nil, fmt.Errorf("failed to create backup directory %s: %w", backupDir, backupDirErr)
	}

	return &Manager{
		profilePath: absPath,
		backupDir:   backupDir,
		backupCount: defaultBackupCount,
	}, nil
}

// Path returns the absolute profile path
func (sm *Manager) Path() string {
	return sm.profilePath
}

// LoadProfile loads the profile from disk.
// If the file is missing or empty, it writes and returns default values.
func (sm *Manager) LoadProfile() (*Profile, error) {
	logger.Debug("Loading profile from: %s", sm.profilePath)
	sm.mu.Lock()
	defer sm.mu.Unlock()

	data, err := os.ReadFile(sm.profilePath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	if len(data) == 0 {
		logger.Info("No valid profile file, creating default profile")
		profile := NewProfile()
		if writeErr := sm.write(profile); writeErr != nil {
			return nil, fmt.Errorf("failed to write initial profile: %w", writeErr)
		}
		return profile, nil
	}

	logger.Debug("Parsing existing profile file (%d bytes)", len(data))
	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile file: %w", err)
	}

	// Ensure required fields are initialized
	if profile.Sourcemaps == nil {
		profile.Sourcemaps = []Rule{}
	}
	if profile.Coding == "" {
		profile.Coding = NewProfile().Coding
	}
	if profile.Version == 0 {
		profile.Version = CurrentVersion
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", sm.profilePath, err)
	}

	logger.Debug("Profile loaded with %d sourcemap rules", len(profile.Sourcemaps))
	return &profile, nil
}

// SaveProfile saves the profile to disk.
// It automatically creates a backup before saving.
func (sm *Manager) SaveProfile(profile *Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	logger.Debug("Saving profile to: %s", sm.profilePath)

	// Create backup before saving
	if backupErr := sm.createBackup(); backupErr != nil {
		logger.Warn("Failed to create backup: %v", backupErr)
		// Continue with save even if backup fails
	}

	return sm.write(profile)
}

func (sm *Manager) write(profile *Profile) error {
	// Marshal with indentation for readability
	data, marshalErr := json.MarshalIndent(profile, "", "  ")
	if marshalErr != nil {
		return fmt.Errorf("failed to marshal profile: %w", marshalErr)
	}

	logger.Trace("Writing %d bytes of profile data", len(data))
	if err := os.WriteFile(sm.profilePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}
	return nil
}

// createBackup creates a timestamped backup of the current profile file
func (sm *Manager) createBackup() error {
	data, err := os.ReadFile(sm.profilePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	timestamp := time.Now().Format("20060102-150405.000000000")
	backupPath := filepath.Join(sm.backupDir, fmt.Sprintf("profile-%s.json", timestamp))

	logger.Debug("Creating backup: %s", backupPath)
	if err := os.WriteFile(backupPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	return sm.cleanupOldBackups()
}

// cleanupOldBackups removes old backup files, keeping only the most recent ones
func (sm *Manager) cleanupOldBackups() error {
	entries, err := os.ReadDir(sm.backupDir)
	if err != nil {
		return err
	}

	// Timestamped names sort chronologically
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			names = append(names, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	// Remove old backups
	for i := sm.backupCount; i < len(names); i++ {
		path := filepath.Join(sm.backupDir, names[i])
		logger.Debug("Removing old backup: %s", path)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", path, err)
		}
	}

	return nil
}
