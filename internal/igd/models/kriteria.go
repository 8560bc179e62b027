package models

import (
	"fmt"
	"strings"
)

// FieldPencarian menentukan field mana yang ikut pencarian teks bebas.
type FieldPencarian string

const (
	// FieldNamaKIB: nama pasien dan nomor KIB.
	FieldNamaKIB FieldPencarian = "nama_kib"
	// FieldNamaKIBDPJP: nama pasien, nomor KIB, dan DPJP.
	FieldNamaKIBDPJP FieldPencarian = "nama_kib_dpjp"
)

func ParseFieldPencarian(s string) (FieldPencarian, error) {
	switch FieldPencarian(strings.ToLower(strings.TrimSpace(s))) {
	case FieldNamaKIB:
		return FieldNamaKIB, nil
	case FieldNamaKIBDPJP:
		return FieldNamaKIBDPJP, nil
	}
	return "", fmt.Errorf("field pencarian tidak dikenal: %q", s)
}

// Nilai mengembalikan nilai-nilai record yang dicocokkan untuk set field ini.
func (f FieldPencarian) Nilai(p Pasien) []string {
	switch f {
	case FieldNamaKIBDPJP:
		return []string{p.NamaPasien, p.NoKIB, p.DPJP}
	default:
		return []string{p.NamaPasien, p.NoKIB}
	}
}

// Kriteria filter. Semua bagian opsional dan digabung dengan AND.
type Kriteria struct {
	Mulai  string         `json:"mulai" query:"mulai"` // inklusif, YYYY-MM-DD
	Akhir  string         `json:"akhir" query:"akhir"` // inklusif, YYYY-MM-DD
	Query  string         `json:"q" query:"q"`
	Fields FieldPencarian `json:"fields" query:"fields"`
}
