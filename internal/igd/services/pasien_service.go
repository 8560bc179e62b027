package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"

	"github.com/c14220110/igd-dashboard/internal/igd/models"
	"github.com/c14220110/igd-dashboard/pkg/messaging"
	"github.com/c14220110/igd-dashboard/pkg/storage/objectstore"
	"github.com/c14220110/igd-dashboard/pkg/store"
)

var (
	ErrKonfirmasi      = errors.New("hapus data memerlukan konfirmasi")
	ErrSedangDiproses  = errors.New("permintaan yang sama masih diproses")
	ErrImporTidakValid = errors.New("file impor bukan daftar data pasien")
	ErrArsipNonaktif   = errors.New("penyimpanan arsip tidak dikonfigurasi")
)

// Tipe pesan websocket dan aksi di dalamnya.
const (
	PesanPasienUpdate = "pasien_update"

	AksiCreate    = "create"
	AksiUpdate    = "update"
	AksiDelete    = "delete"
	AksiImpor     = "import"
	AksiMuatUlang = "reload"
)

// Broadcaster diimplementasikan oleh ws.Hub.
type Broadcaster interface {
	Kirim(tipe string, data interface{}) error
}

// PasienService memegang satu-satunya salinan koleksi record. Semua mutasi
// lewat service ini dan state lokal baru berubah setelah store mengonfirmasi.
type PasienService struct {
	mu      sync.RWMutex
	records []models.Pasien
	store   store.RecordStore

	// gerbang: mutasi memegang RLock dari panggilan store sampai state lokal
	// diperbarui, Load memegang Lock.
	gerbang sync.RWMutex

	hub      Broadcaster
	pub      messaging.PublisherInterface
	arsip    objectstore.Uploader
	fields   models.FieldPencarian
	inflight *inflight
	log      zerolog.Logger
	now      func() time.Time
}

func NewPasienService(st store.RecordStore, hub Broadcaster, pub messaging.PublisherInterface, log zerolog.Logger) *PasienService {
	if pub == nil {
		pub = messaging.NoopPublisher{}
	}
	return &PasienService{
		records:  []models.Pasien{},
		store:    st,
		hub:      hub,
		pub:      pub,
		fields:   models.FieldNamaKIB,
		inflight: newInflight(),
		log:      log.With().Str("komponen", "pasien_service").Logger(),
		now:      time.Now,
	}
}

// SetArsip memasang uploader untuk Arsip. nil menonaktifkan arsip.
func (s *PasienService) SetArsip(u objectstore.Uploader) {
	s.arsip = u
}

// SetFieldPencarian mengganti set field bawaan untuk pencarian teks.
func (s *PasienService) SetFieldPencarian(f models.FieldPencarian) {
	s.fields = f
}

// GantiStore memasang store baru. State lokal tidak disentuh sampai Load berikutnya.
func (s *PasienService) GantiStore(st store.RecordStore) {
	s.mu.Lock()
	s.store = st
	s.mu.Unlock()
}

func (s *PasienService) currentStore() store.RecordStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// Load mengganti seluruh state lokal dengan isi store.
func (s *PasienService) Load(ctx context.Context) (int, error) {
	release, err := s.inflight.acquire("load")
	if err != nil {
		return 0, err
	}
	defer release()

	s.gerbang.Lock()
	defer s.gerbang.Unlock()

	rows, err := s.currentStore().List(ctx)
	if err != nil {
		return 0, fmt.Errorf("gagal memuat data pasien: %w", err)
	}
	if rows == nil {
		rows = []models.Pasien{}
	}

	s.mu.Lock()
	s.records = rows
	s.mu.Unlock()

	s.log.Info().Int("jumlah", len(rows)).Msg("data pasien dimuat")
	s.broadcast(AksiMuatUlang, map[string]int{"jumlah": len(rows)})
	return len(rows), nil
}

// Snapshot mengembalikan salinan koleksi saat ini.
func (s *PasienService) Snapshot() []models.Pasien {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Pasien, len(s.records))
	copy(out, s.records)
	return out
}

// Cari menerapkan Filter atas snapshot, memakai set field bawaan bila kosong.
func (s *PasienService) Cari(k models.Kriteria) []models.Pasien {
	if k.Fields == "" {
		k.Fields = s.fields
	}
	return Filter(s.Snapshot(), k)
}

func (s *PasienService) Statistik(k models.Kriteria) models.Ringkasan {
	return Ringkasan(s.Cari(k))
}

func (s *PasienService) Get(id string) (models.Pasien, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.records {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Pasien{}, store.ErrNotFound
}

// Create menyimpan record ke store lalu menambahkannya ke state lokal dengan id dari store.
func (s *PasienService) Create(ctx context.Context, p models.Pasien) (models.Pasien, models.Notifikasi, error) {
	release, err := s.inflight.acquire("create:" + p.NoKIB)
	if err != nil {
		return models.Pasien{}, notifGagal(err), err
	}
	defer release()

	s.gerbang.RLock()
	defer s.gerbang.RUnlock()

	created, err := s.createOne(ctx, p, s.nextNo())
	if err != nil {
		return models.Pasien{}, notifGagal(err), err
	}

	s.mu.Lock()
	s.records = append(s.records, created)
	s.mu.Unlock()

	s.log.Info().Str("id", created.ID).Str("no_kib", created.NoKIB).Msg("pasien ditambahkan")
	s.afterMutation(ctx, AksiCreate, messaging.PasienCreated, created)
	return created, notifSukses("Data pasien berhasil ditambahkan"), nil
}

func (s *PasienService) createOne(ctx context.Context, p models.Pasien, no int) (models.Pasien, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if strings.TrimSpace(p.No) == "" {
		p.No = cast.ToString(no)
	}
	p.CreatedAt = s.now().Format(time.RFC3339)

	id, err := s.currentStore().Create(ctx, p)
	if err != nil {
		return models.Pasien{}, fmt.Errorf("gagal menyimpan pasien %s: %w", p.NoKIB, err)
	}
	if id != "" {
		p.ID = id
	}
	return p, nil
}

// nextNo adalah nomor urut berikutnya: nomor terbesar di state lokal + 1.
func (s *PasienService) nextNo() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maxNo(s.records) + 1
}

func maxNo(records []models.Pasien) int {
	tertinggi := 0
	for _, r := range records {
		if n := cast.ToInt(strings.TrimSpace(r.No)); n > tertinggi {
			tertinggi = n
		}
	}
	return tertinggi
}

// Update menimpa record di store lalu di state lokal. ErrNotFound tidak mengubah state lokal.
func (s *PasienService) Update(ctx context.Context, p models.Pasien) (models.Pasien, models.Notifikasi, error) {
	if p.ID == "" {
		return models.Pasien{}, notifGagal(store.ErrNotFound), store.ErrNotFound
	}
	release, err := s.inflight.acquire("update:" + p.ID)
	if err != nil {
		return models.Pasien{}, notifGagal(err), err
	}
	defer release()

	s.gerbang.RLock()
	defer s.gerbang.RUnlock()

	if existing, err := s.Get(p.ID); err == nil {
		p.CreatedAt = existing.CreatedAt
	}

	if err := s.currentStore().Update(ctx, p); err != nil {
		err = fmt.Errorf("gagal memperbarui pasien %s: %w", p.ID, err)
		return models.Pasien{}, notifGagal(err), err
	}

	s.mu.Lock()
	found := false
	for i := range s.records {
		if s.records[i].ID == p.ID {
			s.records[i] = p
			found = true
			break
		}
	}
	if !found {
		// ada di store tapi belum ada di state lokal
		s.records = append(s.records, p)
	}
	s.mu.Unlock()

	s.log.Info().Str("id", p.ID).Msg("pasien diperbarui")
	s.afterMutation(ctx, AksiUpdate, messaging.PasienUpdated, p)
	return p, notifSukses("Data pasien berhasil diperbarui"), nil
}

// Delete menghapus record dari store lalu dari state lokal. Tanpa konfirmasi
// permintaan ditolak sebelum menyentuh store. Tidak ada undo.
func (s *PasienService) Delete(ctx context.Context, id string, confirmed bool) (models.Notifikasi, error) {
	if !confirmed {
		return notifGagal(ErrKonfirmasi), ErrKonfirmasi
	}
	release, err := s.inflight.acquire("delete:" + id)
	if err != nil {
		return notifGagal(err), err
	}
	defer release()

	s.gerbang.RLock()
	defer s.gerbang.RUnlock()

	if err := s.currentStore().Delete(ctx, id); err != nil {
		err = fmt.Errorf("gagal menghapus pasien %s: %w", id, err)
		return notifGagal(err), err
	}

	removed := models.Pasien{ID: id}
	s.mu.Lock()
	for i := range s.records {
		if s.records[i].ID == id {
			removed = s.records[i]
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.log.Info().Str("id", id).Msg("pasien dihapus")
	s.afterMutation(ctx, AksiDelete, messaging.PasienDeleted, removed)
	return notifSukses("Data pasien berhasil dihapus"), nil
}

// Import membuat record satu per satu secara berurutan. Record dengan no KIB
// yang sudah ada (di state lokal atau sebelumnya di file yang sama) dilewati,
// record yang gagal dihitung sebagai gagal. Semua yang berhasil digabung ke
// state lokal sekaligus di akhir.
func (s *PasienService) Import(ctx context.Context, items []models.Pasien) (models.ImporHasil, models.Notifikasi, error) {
	release, err := s.inflight.acquire("import")
	if err != nil {
		return models.ImporHasil{}, notifGagal(err), err
	}
	defer release()

	s.gerbang.RLock()
	defer s.gerbang.RUnlock()

	snapshot := s.Snapshot()
	seen := make(map[string]struct{}, len(snapshot))
	for _, r := range snapshot {
		if k := strings.TrimSpace(r.NoKIB); k != "" {
			seen[k] = struct{}{}
		}
	}
	no := maxNo(snapshot)

	hasil := models.ImporHasil{Pasien: []models.Pasien{}}
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			hasil.Failed += len(items) - hasil.Imported - hasil.Skipped - hasil.Failed
			break
		}
		key := strings.TrimSpace(item.NoKIB)
		if key != "" {
			if _, dup := seen[key]; dup {
				hasil.Skipped++
				continue
			}
		}

		// id dan waktu dibuat selalu dari proses ini, bukan dari file
		item.ID = ""
		item.CreatedAt = ""
		created, err := s.createOne(ctx, item, no+1)
		if err != nil {
			s.log.Warn().Err(err).Str("no_kib", item.NoKIB).Msg("impor satu data gagal")
			hasil.Failed++
			continue
		}
		if n := cast.ToInt(strings.TrimSpace(created.No)); n > no {
			no = n
		}
		if key != "" {
			seen[key] = struct{}{}
		}
		hasil.Pasien = append(hasil.Pasien, created)
		hasil.Imported++
	}

	if len(hasil.Pasien) > 0 {
		s.mu.Lock()
		s.records = append(s.records, hasil.Pasien...)
		s.mu.Unlock()
		s.afterMutation(ctx, AksiImpor, messaging.PasienImported, hasil.Pasien)
	}

	s.log.Info().
		Int("imported", hasil.Imported).
		Int("skipped", hasil.Skipped).
		Int("failed", hasil.Failed).
		Msg("impor selesai")

	notif := notifSukses(fmt.Sprintf("%d imported", hasil.Imported))
	if hasil.Imported == 0 && hasil.Failed > 0 {
		notif.Level = LevelError
	}
	return hasil, notif, nil
}

// Arsip mengunggah backup JSON penuh ke object storage.
func (s *PasienService) Arsip(ctx context.Context) (string, error) {
	if s.arsip == nil {
		return "", ErrArsipNonaktif
	}
	data, err := Ekspor(s.Snapshot())
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("igd-backup-%s.json", s.now().Format("20060102-150405"))
	loc, err := s.arsip.Upload(ctx, name, data, "application/json")
	if err != nil {
		return "", fmt.Errorf("gagal mengarsipkan backup: %w", err)
	}
	s.log.Info().Str("lokasi", loc).Msg("backup diarsipkan")
	return loc, nil
}

// afterMutation mengirim broadcast dan event. Kegagalan hanya dicatat.
func (s *PasienService) afterMutation(ctx context.Context, aksi, routingKey string, data interface{}) {
	s.broadcast(aksi, data)

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.pub.Publish(pubCtx, routingKey, data); err != nil {
		s.log.Warn().Err(err).Str("routing_key", routingKey).Msg("gagal publish event")
	}
}

func (s *PasienService) broadcast(aksi string, data interface{}) {
	if s.hub == nil {
		return
	}
	if err := s.hub.Kirim(PesanPasienUpdate, map[string]interface{}{"aksi": aksi, "pasien": data}); err != nil {
		s.log.Warn().Err(err).Str("aksi", aksi).Msg("gagal broadcast")
	}
}

const (
	LevelSuccess = "success"
	LevelError   = "error"
)

func notifSukses(pesan string) models.Notifikasi {
	return models.Notifikasi{Level: LevelSuccess, Pesan: pesan}
}

func notifGagal(err error) models.Notifikasi {
	return models.Notifikasi{Level: LevelError, Pesan: err.Error()}
}
