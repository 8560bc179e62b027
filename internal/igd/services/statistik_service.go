package services

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/c14220110/igd-dashboard/internal/igd/models"
)

// Jam yang ditampilkan di grafik kedatangan.
const (
	JamTampilAwal  = 6
	JamTampilAkhir = 22
)

// Persen membulatkan count/total*100 ke bilangan bulat terdekat, 0 bila total 0.
func Persen(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// HitungPrioritas selalu mengembalikan P1..P5 berurutan, termasuk yang nol.
func HitungPrioritas(records []models.Pasien) []models.KategoriCount {
	counts := make(map[string]int, len(models.ValidPrioritas))
	for _, p := range records {
		counts[p.Prioritas]++
	}
	out := make([]models.KategoriCount, 0, len(models.ValidPrioritas))
	for _, k := range models.ValidPrioritas {
		out = append(out, models.KategoriCount{
			Kategori: k,
			Count:    counts[k],
			Persen:   Persen(counts[k], len(records)),
		})
	}
	return out
}

// HitungKet hanya memuat disposisi yang muncul, urut kemunculan pertama.
func HitungKet(records []models.Pasien) []models.KategoriCount {
	return hitungTeramati(records, func(p models.Pasien) string { return p.Ket })
}

// HitungRuangan sama seperti HitungKet untuk ruangan.
func HitungRuangan(records []models.Pasien) []models.KategoriCount {
	return hitungTeramati(records, func(p models.Pasien) string { return p.Ruangan })
}

func hitungTeramati(records []models.Pasien, field func(models.Pasien) string) []models.KategoriCount {
	counts := map[string]int{}
	var urutan []string
	for _, p := range records {
		v := strings.TrimSpace(field(p))
		if models.IsKosong(v) {
			continue
		}
		if _, ok := counts[v]; !ok {
			urutan = append(urutan, v)
		}
		counts[v]++
	}
	out := make([]models.KategoriCount, 0, len(urutan))
	for _, k := range urutan {
		out = append(out, models.KategoriCount{
			Kategori: k,
			Count:    counts[k],
			Persen:   Persen(counts[k], len(records)),
		})
	}
	return out
}

// ParseJam mengurai "HH:MM" menjadi jam dan menit. ok false untuk sentinel,
// string kosong, atau nilai di luar rentang.
func ParseJam(s string) (jam, menit int, ok bool) {
	s = strings.TrimSpace(s)
	if models.IsKosong(s) {
		return 0, 0, false
	}
	h, m, found := strings.Cut(s, ":")
	if !found || len(m) != 2 || len(h) == 0 || len(h) > 2 {
		return 0, 0, false
	}
	jam, err := strconv.Atoi(h)
	if err != nil || jam < 0 || jam > 23 {
		return 0, 0, false
	}
	menit, err = strconv.Atoi(m)
	if err != nil || menit < 0 || menit > 59 {
		return 0, 0, false
	}
	return jam, menit, true
}

// HistogramJam menghitung kedatangan per jam (0..23) dari JamDatang.
func HistogramJam(records []models.Pasien) [24]int {
	var buckets [24]int
	for _, p := range records {
		if jam, _, ok := ParseJam(p.JamDatang); ok {
			buckets[jam]++
		}
	}
	return buckets
}

// JamTampil memotong histogram ke jam 06..22.
func JamTampil(buckets [24]int) []models.JamCount {
	out := make([]models.JamCount, 0, JamTampilAkhir-JamTampilAwal+1)
	for h := JamTampilAwal; h <= JamTampilAkhir; h++ {
		out = append(out, models.JamCount{Jam: h, Count: buckets[h]})
	}
	return out
}

// JumlahUnik menghitung nilai berbeda yang tidak kosong dan bukan "-".
func JumlahUnik(records []models.Pasien, field func(models.Pasien) string) int {
	seen := map[string]struct{}{}
	for _, p := range records {
		v := strings.TrimSpace(field(p))
		if models.IsKosong(v) {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}

// KunjunganHarian menghitung kunjungan per tanggal, urut tanggal naik.
func KunjunganHarian(records []models.Pasien) []models.TanggalCount {
	counts := map[string]int{}
	for _, p := range records {
		if p.Tanggal == "" {
			continue
		}
		counts[p.Tanggal]++
	}
	out := make([]models.TanggalCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, models.TanggalCount{Tanggal: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tanggal < out[j].Tanggal })
	return out
}

// rataRataMenit menghitung rata-rata selisih menit dari pasangan jam yang valid.
// Jam akhir yang lebih kecil dianggap sudah lewat tengah malam.
func rataRataMenit(records []models.Pasien, dari, ke func(models.Pasien) string) *float64 {
	var total, n int
	for _, p := range records {
		h1, m1, ok1 := ParseJam(dari(p))
		h2, m2, ok2 := ParseJam(ke(p))
		if !ok1 || !ok2 {
			continue
		}
		selisih := (h2*60 + m2) - (h1*60 + m1)
		if selisih < 0 {
			selisih += 24 * 60
		}
		total += selisih
		n++
	}
	if n == 0 {
		return nil
	}
	avg := math.Round(float64(total)/float64(n)*10) / 10
	return &avg
}

func jamDatang(p models.Pasien) string { return p.JamDatang }
func jamRespon(p models.Pasien) string { return p.JamRespon }
func jamDokter(p models.Pasien) string { return p.JamDokter }

// Ringkasan menghitung seluruh statistik dashboard untuk koleksi yang sudah difilter.
func Ringkasan(records []models.Pasien) models.Ringkasan {
	return models.Ringkasan{
		Total:           len(records),
		PerPrioritas:    HitungPrioritas(records),
		PerKet:          HitungKet(records),
		PerRuangan:      HitungRuangan(records),
		PerJam:          JamTampil(HistogramJam(records)),
		KunjunganHarian: KunjunganHarian(records),
		JumlahSpesialis: JumlahUnik(records, func(p models.Pasien) string { return p.DokterSpesialis }),
		JumlahDPJP:      JumlahUnik(records, func(p models.Pasien) string { return p.DPJP }),
		RataRataRespon:  rataRataMenit(records, jamDatang, jamRespon),
		RataRataDokter:  rataRataMenit(records, jamDatang, jamDokter),
	}
}
