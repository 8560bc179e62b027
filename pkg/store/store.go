// Package store mendefinisikan kontrak penyimpanan record pasien IGD.
package store

import (
	"context"
	"errors"

	"github.com/c14220110/igd-dashboard/internal/igd/models"
)

var (
	// ErrNotFound: baris dengan id tersebut tidak ada di store.
	ErrNotFound = errors.New("data tidak ditemukan")
	// ErrRemote: kegagalan jaringan, status non-2xx, atau respons rusak.
	ErrRemote = errors.New("store tidak dapat dihubungi")
)

// RecordStore adalah fasad CRUD atas penyimpanan record.
type RecordStore interface {
	List(ctx context.Context) ([]models.Pasien, error)
	// Create mengembalikan id yang dikonfirmasi store.
	Create(ctx context.Context, p models.Pasien) (string, error)
	Update(ctx context.Context, p models.Pasien) error
	Delete(ctx context.Context, id string) error
}

// Columns adalah urutan kolom tetap di spreadsheet maupun tabel.
var Columns = []string{
	"id",
	"no",
	"tanggal",
	"noKib",
	"namaPasien",
	"prioritas",
	"jamDatang",
	"jamRespon",
	"jamDokter",
	"jamKonsul",
	"jamResponSpesialis",
	"dpjp",
	"dokterSpesialis",
	"ket",
	"ruangan",
	"masalah",
	"createdAt",
}

// ToRow menerjemahkan record ke baris wire yang dikunci nama header.
func ToRow(p models.Pasien) map[string]string {
	return map[string]string{
		"id":                 p.ID,
		"no":                 p.No,
		"tanggal":            p.Tanggal,
		"noKib":              p.NoKIB,
		"namaPasien":         p.NamaPasien,
		"prioritas":          p.Prioritas,
		"jamDatang":          p.JamDatang,
		"jamRespon":          p.JamRespon,
		"jamDokter":          p.JamDokter,
		"jamKonsul":          p.JamKonsul,
		"jamResponSpesialis": p.JamResponSpesialis,
		"dpjp":               p.DPJP,
		"dokterSpesialis":    p.DokterSpesialis,
		"ket":                p.Ket,
		"ruangan":            p.Ruangan,
		"masalah":            p.Masalah,
		"createdAt":          p.CreatedAt,
	}
}

// FromRow kebalikan ToRow. Header yang tidak dikenal diabaikan.
func FromRow(row map[string]string) models.Pasien {
	return models.Pasien{
		ID:                 row["id"],
		No:                 row["no"],
		Tanggal:            row["tanggal"],
		NoKIB:              row["noKib"],
		NamaPasien:         row["namaPasien"],
		Prioritas:          row["prioritas"],
		JamDatang:          row["jamDatang"],
		JamRespon:          row["jamRespon"],
		JamDokter:          row["jamDokter"],
		JamKonsul:          row["jamKonsul"],
		JamResponSpesialis: row["jamResponSpesialis"],
		DPJP:               row["dpjp"],
		DokterSpesialis:    row["dokterSpesialis"],
		Ket:                row["ket"],
		Ruangan:            row["ruangan"],
		Masalah:            row["masalah"],
		CreatedAt:          row["createdAt"],
	}
}
