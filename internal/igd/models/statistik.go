package models

// KategoriCount adalah jumlah record untuk satu nilai kategori.
type KategoriCount struct {
	Kategori string `json:"kategori"`
	Count    int    `json:"count"`
	Persen   int    `json:"persen"`
}

type JamCount struct {
	Jam   int `json:"jam"`
	Count int `json:"count"`
}

type TanggalCount struct {
	Tanggal string `json:"tanggal"`
	Count   int    `json:"count"`
}

// Ringkasan adalah payload dashboard untuk satu koleksi yang sudah difilter.
type Ringkasan struct {
	Total           int             `json:"total"`
	PerPrioritas    []KategoriCount `json:"per_prioritas"`
	PerKet          []KategoriCount `json:"per_ket"`
	PerRuangan      []KategoriCount `json:"per_ruangan"`
	PerJam          []JamCount      `json:"per_jam"`
	KunjunganHarian []TanggalCount  `json:"kunjungan_harian"`
	JumlahSpesialis int             `json:"jumlah_spesialis"`
	JumlahDPJP      int             `json:"jumlah_dpjp"`

	// rata-rata dalam menit, nil bila tidak ada pasangan jam yang valid
	RataRataRespon *float64 `json:"rata_rata_respon,omitempty"`
	RataRataDokter *float64 `json:"rata_rata_dokter,omitempty"`
}
