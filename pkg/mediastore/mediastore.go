package mediastore

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrInvalidPath is returned for folder paths escaping the media root
	ErrInvalidPath = errors.New("invalid folder path")
	// ErrNotFound is returned when the requested folder does not exist
	ErrNotFound = errors.New("folder not found")
)

// imageExtensions are the file extensions listed by ListFolder
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// FileInfo describes one stored media file
type FileInfo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Store is a disk-backed media store rooted at a single directory
type Store struct {
	root    string
	baseURL string
}

// New creates a Store rooted at root, serving files under baseURL
func New(root, baseURL string) *Store {
	return &Store{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// resolve maps a user-supplied folder path onto the media root,
// rejecting anything that would escape it
func (s *Store) resolve(folder string) (string, error) {
	trimmed := strings.TrimSpace(folder)
	if filepath.IsAbs(trimmed) || strings.HasPrefix(trimmed, "/") {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(filepath.ToSlash(trimmed), "/") {
		if seg == ".." {
			return "", ErrInvalidPath
		}
	}
	full := filepath.Join(s.root, filepath.FromSlash(trimmed))

	rootAbs, err := filepath.Abs(s.root)
	if err != nil {
		return "", err
	}
	fullAbs, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	if fullAbs != rootAbs && !strings.HasPrefix(fullAbs, rootAbs+string(os.PathSeparator)) {
		return "", ErrInvalidPath
	}
	return full, nil
}

// Save writes src into folder under a collision-free variant of filename
// and returns the path relative to the media root
func (s *Store) Save(folder, filename string, src io.Reader) (string, error) {
	dir, err := s.resolve(folder)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := filepath.Base(filename)
	target := filepath.Join(dir, name)
	if _, err := os.Stat(target); err == nil {
		// Name is taken, append a random suffix before the extension
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		name = base + "_" + uuid.New().String()[:8] + ext
		target = filepath.Join(dir, name)
	}

	dst, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	rel, err := filepath.Rel(s.root, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// ListFolder returns the image files directly inside folder
func (s *Store) ListFolder(folder string) ([]FileInfo, error) {
	dir, err := s.resolve(folder)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	files := []FileInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !imageExtensions[ext] {
			continue
		}
		rel, err := filepath.Rel(s.root, filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name: entry.Name(),
			URL:  s.baseURL + "/" + filepath.ToSlash(rel),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// URL returns the public URL of a stored relative path
func (s *Store) URL(rel string) string {
	return s.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(rel), "/")
}

// Delete removes a previously stored file by its relative path.
// Missing files are not an error.
func (s *Store) Delete(rel string) error {
	full, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
