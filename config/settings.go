package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sumber endpoint store yang sedang berlaku.
const (
	SumberPengaturan = "pengaturan"
	SumberEnv        = "env"
	SumberBawaan     = "bawaan"
)

// Settings adalah pengaturan lokal yang dipersist ke file YAML.
// Perubahan baru berlaku setelah muat ulang eksplisit.
type Settings struct {
	StoreURL string `yaml:"store_url" json:"store_url" validate:"omitempty,url"`
}

// LoadSettings membaca file pengaturan. File yang belum ada bukan error.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("gagal membaca pengaturan %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("format pengaturan %s tidak valid: %w", path, err)
	}
	s.StoreURL = strings.TrimSpace(s.StoreURL)
	return s, nil
}

// SaveSettings menulis pengaturan secara atomik (tulis ke file sementara lalu rename).
func SaveSettings(path string, s Settings) error {
	s.StoreURL = strings.TrimSpace(s.StoreURL)
	b, err := yaml.Marshal(&s)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pengaturan-*")
	if err != nil {
		return fmt.Errorf("gagal menyimpan pengaturan: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("gagal menyimpan pengaturan: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ResolveStoreURL menentukan endpoint: file pengaturan, lalu STORE_URL, lalu bawaan.
func ResolveStoreURL(c *Config, s Settings) (string, string) {
	if s.StoreURL != "" {
		return s.StoreURL, SumberPengaturan
	}
	if c.StoreURL != "" {
		return c.StoreURL, SumberEnv
	}
	return DefaultStoreURL, SumberBawaan
}
