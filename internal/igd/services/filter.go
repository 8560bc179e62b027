package services

import (
	"strings"

	"github.com/c14220110/igd-dashboard/internal/igd/models"
)

// Filter mengembalikan record yang memenuhi semua kriteria (AND) dengan urutan asli.
// Batas tanggal dibandingkan secara leksikografis terhadap Tanggal (format ISO),
// batas kosong tidak membatasi. Mulai > Akhir menghasilkan slice kosong.
func Filter(records []models.Pasien, k models.Kriteria) []models.Pasien {
	q := strings.ToLower(strings.TrimSpace(k.Query))
	fields := k.Fields
	if fields == "" {
		fields = models.FieldNamaKIB
	}

	out := make([]models.Pasien, 0, len(records))
	for _, p := range records {
		if k.Mulai != "" && p.Tanggal < k.Mulai {
			continue
		}
		if k.Akhir != "" && p.Tanggal > k.Akhir {
			continue
		}
		if q != "" && !cocok(fields.Nilai(p), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func cocok(values []string, q string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}
