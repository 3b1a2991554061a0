// Package storage persists generated artifacts (screenshots, PDFs) to
// Supabase storage with signed URLs, falling back to local files under
// DATA_DIR when Supabase is not configured.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"restyler/internal/config"
	"restyler/internal/logger"

	"github.com/antoineross/supabase-go"
	storage_go "github.com/supabase-community/storage-go"
)

const signedURLExpirySeconds = 15 * 60

type Service struct {
	log *logger.Logger
	cfg config.Config

	supabaseClient *supabase.Client
}

func New(cfg config.Config) (*Service, error) {
	s := &Service{log: logger.New("StorageService"), cfg: cfg}

	// In production, Supabase configuration is required
	if cfg.AppEnv == "production" {
		if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" || cfg.SupabaseBucket == "" {
			return nil, fmt.Errorf("production environment requires Supabase configuration: SUPABASE_URL, SUPABASE_SERVICE_ROLE_KEY, and SUPABASE_STORAGE_BUCKET must be set")
		}
	}

	if cfg.SupabaseURL != "" && cfg.SupabaseServiceKey != "" {
		client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, nil)
		if err != nil {
			if cfg.AppEnv == "production" {
				return nil, fmt.Errorf("failed to initialize Supabase client in production: %w", err)
			}
			s.log.LogWarnf("failed to initialize Supabase client: %v", err)
		} else {
			s.supabaseClient = client
		}
	}
	return s, nil
}

// Save writes an artifact under subdir (e.g. "screenshots", "exports") and
// returns a local path (empty when remote) plus a public URL. Supabase
// uploads return a signed URL; local files are served under /files.
func (s *Service) Save(data []byte, subdir, name string) (string, string, error) {
	if s.supabaseClient != nil && s.cfg.SupabaseBucket != "" {
		bucketPath := filepath.ToSlash(filepath.Join(subdir, name))

		mimeType := mime.TypeByExtension(filepath.Ext(name))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		reader := bytes.NewReader(data)
		if _, err := s.supabaseClient.Storage.UploadFile(s.cfg.SupabaseBucket, bucketPath, reader, storage_go.FileOptions{ContentType: &mimeType}); err != nil {
			s.log.LogWarnf("Supabase upload failed: %v", err)
			if s.cfg.AppEnv == "production" {
				return "", "", fmt.Errorf("failed to upload %s to Supabase storage in production: %w", bucketPath, err)
			}
			return s.saveLocal(data, subdir, name)
		}

		signed, err := s.createSignedURL(s.cfg.SupabaseBucket, bucketPath, signedURLExpirySeconds)
		if err != nil {
			s.log.LogWarnf("Supabase signed URL creation failed: %v", err)
			if s.cfg.AppEnv == "production" {
				return "", "", fmt.Errorf("failed to create signed URL for %s in production: %w", bucketPath, err)
			}
			return s.saveLocal(data, subdir, name)
		}
		s.log.LogDebugf("uploaded %s, signed URL ready", bucketPath)
		return "", signed, nil
	}

	if s.cfg.AppEnv == "production" {
		return "", "", fmt.Errorf("supabase storage is required in production environment")
	}
	return s.saveLocal(data, subdir, name)
}

func (s *Service) saveLocal(data []byte, subdir, name string) (string, string, error) {
	dir := filepath.Join(s.cfg.DataDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", err
	}
	return path, "/files/" + subdir + "/" + name, nil
}

// createSignedURL performs a direct REST call to sign objects with fresh headers
func (s *Service) createSignedURL(bucket string, objectPath string, expiresIn int) (string, error) {
	if s.cfg.SupabaseURL == "" {
		return "", fmt.Errorf("supabase URL not configured")
	}
	serviceKey := s.cfg.SupabaseServiceKey
	if serviceKey == "" {
		return "", fmt.Errorf("supabase service key not configured")
	}

	signURL := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s", strings.TrimRight(s.cfg.SupabaseURL, "/"), bucket, objectPath)
	body := map[string]int{"expiresIn": expiresIn}
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return "", fmt.Errorf("failed to encode sign body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, signURL, buf)
	if err != nil {
		return "", fmt.Errorf("failed to build sign request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+serviceKey)
	req.Header.Set("apikey", serviceKey)

	httpClient := &http.Client{Timeout: 15 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request signed URL: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("failed to create signed URL: status %d", resp.StatusCode)
	}

	var signed struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", fmt.Errorf("failed to decode signed URL response: %w", err)
	}

	base := strings.TrimRight(s.cfg.SupabaseURL, "/")
	path := signed.SignedURL
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if !strings.HasPrefix(path, "/storage/v1/") {
		path = "/storage/v1" + path
	}
	finalURL := base + path
	if s.cfg.AppEnv == "local" || s.cfg.AppEnv == "development" {
		finalURL = strings.Replace(finalURL, "host.docker.internal", "127.0.0.1", 1)
	}
	return finalURL, nil
}
