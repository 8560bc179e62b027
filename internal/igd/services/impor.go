package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/c14220110/igd-dashboard/internal/igd/models"
	"github.com/c14220110/igd-dashboard/pkg/store"
)

// Ekspor menghasilkan backup JSON penuh dengan header kolom yang sama seperti store.
func Ekspor(records []models.Pasien) ([]byte, error) {
	rows := make([]map[string]string, 0, len(records))
	for _, p := range records {
		rows = append(rows, store.ToRow(p))
	}
	return json.MarshalIndent(rows, "", "  ")
}

// ParseImpor membaca daftar record dari file backup. Diterima array JSON atau
// amplop {"data": [...]}. Kunci boleh camelCase (header kolom) atau snake_case.
func ParseImpor(data []byte) ([]models.Pasien, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrImporTidakValid
	}

	var raw []map[string]interface{}
	if data[0] == '{' {
		var env struct {
			Data []map[string]interface{} `json:"data"`
		}
		if err := json.Unmarshal(data, &env); err != nil || env.Data == nil {
			return nil, ErrImporTidakValid
		}
		raw = env.Data
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImporTidakValid, err)
	}

	out := make([]models.Pasien, 0, len(raw))
	for i, r := range raw {
		if r == nil {
			return nil, fmt.Errorf("%w: elemen %d bukan objek", ErrImporTidakValid, i)
		}
		row := make(map[string]string, len(r))
		for k, v := range r {
			row[kolom(k)] = strings.TrimSpace(cast.ToString(v))
		}
		out = append(out, store.FromRow(row))
	}
	return out, nil
}

// kolom mengubah no_kib menjadi noKib. Kunci camelCase tidak berubah.
func kolom(k string) string {
	parts := strings.Split(k, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
