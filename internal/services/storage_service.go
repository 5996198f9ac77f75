package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/familyalbum/server/internal/models"
)

// MediaStorageService stores uploaded originals under Year/Month folders
type MediaStorageService struct {
	basePath          string
	allowedExtensions map[string]bool
	maxFileSizeBytes  int64
}

// NewMediaStorageService creates a new MediaStorageService
func NewMediaStorageService(basePath string, allowedExtensions []string, maxFileSizeMB int64) (*MediaStorageService, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, err
	}

	extSet := make(map[string]bool)
	if len(allowedExtensions) == 0 {
		for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic", ".heif"} {
			extSet[ext] = true
		}
	} else {
		for _, ext := range allowedExtensions {
			extSet[strings.ToLower(ext)] = true
		}
	}

	return &MediaStorageService{
		basePath:          absPath,
		allowedExtensions: extSet,
		maxFileSizeBytes:  maxFileSizeMB * 1024 * 1024,
	}, nil
}

// Store saves a file under {year}/{month}/ of takenAt and returns the
// relative storage path.
func (s *MediaStorageService) Store(reader io.Reader, originalFilename string, takenAt time.Time, fileSize int64) (string, error) {
	if fileSize > s.maxFileSizeBytes {
		return "", models.ErrFileTooLarge
	}

	sanitized := sanitizeFilename(originalFilename)
	ext := strings.ToLower(filepath.Ext(sanitized))
	if !s.allowedExtensions[ext] {
		return "", models.ErrInvalidExtension
	}

	relativeFolder := filepath.Join(takenAt.Format("2006"), takenAt.Format("01"))
	absoluteFolder := filepath.Join(s.basePath, relativeFolder)
	if err := os.MkdirAll(absoluteFolder, 0755); err != nil {
		return "", err
	}

	uniqueName := generateUniqueFilename(sanitized, absoluteFolder)
	relativePath := filepath.Join(relativeFolder, uniqueName)
	absolutePath := filepath.Join(s.basePath, relativePath)

	if !strings.HasPrefix(absolutePath, s.basePath) {
		return "", models.ErrPathTraversal
	}

	file, err := os.OpenFile(absolutePath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		os.Remove(absolutePath)
		return "", err
	}

	return filepath.ToSlash(relativePath), nil
}

// StoreAt saves a file at an exact relative path, replacing any previous
// content. Used for branding assets whose paths are fixed.
func (s *MediaStorageService) StoreAt(relativePath string, data []byte) error {
	fullPath, err := s.GetFullPath(relativePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, 0644)
}

// Delete removes a file by its stored path, reporting whether it was removed
func (s *MediaStorageService) Delete(storedPath string) bool {
	if strings.TrimSpace(storedPath) == "" {
		return false
	}
	fullPath, err := s.GetFullPath(storedPath)
	if err != nil {
		return false
	}
	return os.Remove(fullPath) == nil
}

// GetFullPath returns the absolute path for a stored path
func (s *MediaStorageService) GetFullPath(storedPath string) (string, error) {
	if strings.TrimSpace(storedPath) == "" {
		return "", fmt.Errorf("stored path cannot be empty")
	}

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(storedPath))
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(absPath, s.basePath) {
		return "", models.ErrPathTraversal
	}
	return absPath, nil
}

// BasePath returns the storage root, used to mount the media file server
func (s *MediaStorageService) BasePath() string {
	return s.basePath
}

// AllowedExtension reports whether a filename's extension may be stored
func (s *MediaStorageService) AllowedExtension(filename string) bool {
	return s.allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// MaxFileSizeBytes returns the per-file upload cap
func (s *MediaStorageService) MaxFileSizeBytes() int64 {
	return s.maxFileSizeBytes
}

// sanitizeFilename removes path components and invalid characters
func sanitizeFilename(filename string) string {
	name := filepath.Base(filename)

	replacer := strings.NewReplacer(
		"..", "",
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	name = replacer.Replace(name)

	const maxLength = 200
	if len(name) > maxLength {
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		if len(base) > maxLength-len(ext) {
			base = base[:maxLength-len(ext)]
		}
		name = base + ext
	}

	return name
}

// generateUniqueFilename creates a unique filename if collision exists
func generateUniqueFilename(filename, folderPath string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	ext := filepath.Ext(filename)
	candidate := filename
	counter := 1

	for {
		if _, err := os.Stat(filepath.Join(folderPath, candidate)); os.IsNotExist(err) {
			break
		}

		candidate = fmt.Sprintf("%s_%03d%s", base, counter, ext)
		counter++

		if counter > 9999 {
			candidate = fmt.Sprintf("%s_%d%s", base, time.Now().UnixNano(), ext)
			break
		}
	}

	return candidate
}
