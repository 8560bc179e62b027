package services

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/c14220110/igd-dashboard/config"
	"github.com/c14220110/igd-dashboard/pkg/storage/mariadb"
	"github.com/c14220110/igd-dashboard/pkg/store"
	"github.com/c14220110/igd-dashboard/pkg/store/memstore"
	"github.com/c14220110/igd-dashboard/pkg/store/spreadsheet"
)

// Jenis store yang bisa aktif.
const (
	JenisSpreadsheet = "spreadsheet"
	JenisMariaDB     = "mariadb"
	JenisMemori      = "memori"
)

// InfoStore menjelaskan store yang sedang dipakai.
type InfoStore struct {
	Jenis  string `json:"jenis"`
	URL    string `json:"url,omitempty"`
	Sumber string `json:"sumber,omitempty"`
}

// StoreSelector membangun store dari pengaturan terkini: endpoint spreadsheet
// bila ada, lalu MariaDB bila DB_HOST diset, terakhir memori.
type StoreSelector struct {
	cfg *config.Config
	log zerolog.Logger
	mem *memstore.Store
}

func NewStoreSelector(cfg *config.Config, log zerolog.Logger) *StoreSelector {
	return &StoreSelector{cfg: cfg, log: log, mem: memstore.New()}
}

// Pilih membaca ulang file pengaturan setiap kali dipanggil.
func (s *StoreSelector) Pilih() (store.RecordStore, InfoStore, error) {
	settings, err := config.LoadSettings(s.cfg.SettingsFile)
	if err != nil {
		return nil, InfoStore{}, err
	}

	url, sumber := config.ResolveStoreURL(s.cfg, settings)
	if url != "" {
		client := spreadsheet.NewClient(url, spreadsheet.Options{
			Timeout:  time.Duration(s.cfg.StoreTimeoutSeconds) * time.Second,
			RetryMax: s.cfg.StoreRetryMax,
		}, s.log)
		s.log.Info().Str("sumber", sumber).Msg("memakai store spreadsheet")
		return client, InfoStore{Jenis: JenisSpreadsheet, URL: url, Sumber: sumber}, nil
	}

	if s.cfg.DatabaseConfigured() {
		db, err := mariadb.Connect(s.cfg)
		if err != nil {
			return nil, InfoStore{}, fmt.Errorf("store MariaDB tidak tersedia: %w", err)
		}
		s.log.Info().Str("host", s.cfg.DBHost).Msg("memakai store MariaDB")
		return mariadb.NewPasienStore(db), InfoStore{Jenis: JenisMariaDB}, nil
	}

	s.log.Warn().Msg("endpoint store dan database tidak diset, data hanya disimpan di memori")
	return s.mem, InfoStore{Jenis: JenisMemori}, nil
}
