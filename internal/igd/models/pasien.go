package models

import "strings"

// Pasien mewakili satu kunjungan pasien IGD.
type Pasien struct {
	ID                 string `json:"id" db:"id"`
	No                 string `json:"no" db:"no_urut"`
	Tanggal            string `json:"tanggal" db:"tanggal" validate:"required,datetime=2006-01-02"` // Format: "2006-01-02"
	NoKIB              string `json:"no_kib" db:"no_kib" validate:"required"`
	NamaPasien         string `json:"nama_pasien" db:"nama_pasien" validate:"required"`
	Prioritas          string `json:"prioritas" db:"prioritas" validate:"required,prioritas"`
	JamDatang          string `json:"jam_datang" db:"jam_datang" validate:"omitempty,jam"` // Format: "15:04" atau "-"
	JamRespon          string `json:"jam_respon" db:"jam_respon" validate:"omitempty,jam"`
	JamDokter          string `json:"jam_dokter" db:"jam_dokter" validate:"omitempty,jam"`
	JamKonsul          string `json:"jam_konsul" db:"jam_konsul" validate:"omitempty,jam"`
	JamResponSpesialis string `json:"jam_respon_spesialis" db:"jam_respon_spesialis" validate:"omitempty,jam"`
	DPJP               string `json:"dpjp" db:"dpjp"`
	DokterSpesialis    string `json:"dokter_spesialis" db:"dokter_spesialis"`
	Ket                string `json:"ket" db:"ket" validate:"omitempty,ket"`
	Ruangan            string `json:"ruangan" db:"ruangan"`
	Masalah            string `json:"masalah" db:"masalah"`
	CreatedAt          string `json:"created_at" db:"created_at"`
}

// Kelas triase, P1 paling gawat.
const (
	P1 = "P1"
	P2 = "P2"
	P3 = "P3"
	P4 = "P4"
	P5 = "P5"
)

var ValidPrioritas = []string{P1, P2, P3, P4, P5}

// Disposisi (ket) kunjungan.
const (
	KetRawatJalan = "Rawat Jalan"
	KetRawatInap  = "Rawat Inap"
	KetRujuk      = "Rujuk"
	KetAPS        = "APS" // pulang atas permintaan sendiri
	KetMeninggal  = "Meninggal"
)

var ValidKet = []string{KetRawatJalan, KetRawatInap, KetRujuk, KetAPS, KetMeninggal}

// SaranRuangan hanya saran untuk form, ruangan tetap teks bebas.
var SaranRuangan = []string{
	"Resusitasi",
	"Bedah",
	"Non Bedah",
	"Anak",
	"Kebidanan",
	"Isolasi",
	"Observasi",
}

// Sentinel untuk jam yang tidak tercatat.
const JamKosong = "-"

// IsKosong true untuk nilai kosong atau sentinel "-".
func IsKosong(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == JamKosong
}

func IsValidPrioritas(v string) bool {
	for _, p := range ValidPrioritas {
		if v == p {
			return true
		}
	}
	return false
}

func IsValidKet(v string) bool {
	for _, k := range ValidKet {
		if v == k {
			return true
		}
	}
	return false
}

// ImporHasil adalah ringkasan impor massal.
type ImporHasil struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Pasien   []Pasien `json:"pasien"`
}

// Notifikasi adalah pesan singkat untuk ditampilkan sebagai toast di dashboard.
type Notifikasi struct {
	Level string `json:"level"` // success | error
	Pesan string `json:"pesan"`
}
