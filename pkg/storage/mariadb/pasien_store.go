package mariadb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/c14220110/igd-dashboard/internal/igd/models"
	"github.com/c14220110/igd-dashboard/pkg/store"
)

// PasienStore adalah store cadangan lokal ketika endpoint spreadsheet tidak dikonfigurasi.
type PasienStore struct {
	DB *sqlx.DB
}

var _ store.RecordStore = (*PasienStore)(nil)

func NewPasienStore(db *sqlx.DB) *PasienStore {
	return &PasienStore{DB: db}
}

const selectColumns = `id, no_urut, tanggal, no_kib, nama_pasien, prioritas,
	jam_datang, jam_respon, jam_dokter, jam_konsul, jam_respon_spesialis,
	dpjp, dokter_spesialis, ket, ruangan, COALESCE(masalah, '') AS masalah, created_at`

// Semua kegagalan driver dibungkus store.ErrRemote.
func (s *PasienStore) List(ctx context.Context) ([]models.Pasien, error) {
	out := []models.Pasien{}
	err := s.DB.SelectContext(ctx, &out, "SELECT "+selectColumns+" FROM igd_pasien ORDER BY seq ASC")
	if err != nil {
		return nil, fmt.Errorf("%w: gagal membaca igd_pasien: %v", store.ErrRemote, err)
	}
	return out, nil
}

func (s *PasienStore) Create(ctx context.Context, p models.Pasien) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().Format(time.RFC3339)

	query := `
		INSERT INTO igd_pasien
			(id, no_urut, tanggal, no_kib, nama_pasien, prioritas,
			 jam_datang, jam_respon, jam_dokter, jam_konsul, jam_respon_spesialis,
			 dpjp, dokter_spesialis, ket, ruangan, masalah, created_at)
		VALUES
			(:id, :no_urut, :tanggal, :no_kib, :nama_pasien, :prioritas,
			 :jam_datang, :jam_respon, :jam_dokter, :jam_konsul, :jam_respon_spesialis,
			 :dpjp, :dokter_spesialis, :ket, :ruangan, :masalah, :created_at)
	`
	if _, err := s.DB.NamedExecContext(ctx, query, p); err != nil {
		return "", fmt.Errorf("%w: gagal menyimpan pasien: %v", store.ErrRemote, err)
	}
	return p.ID, nil
}

// Update menimpa semua kolom kecuali created_at.
func (s *PasienStore) Update(ctx context.Context, p models.Pasien) error {
	query := `
		UPDATE igd_pasien SET
			no_urut = :no_urut, tanggal = :tanggal, no_kib = :no_kib, nama_pasien = :nama_pasien,
			prioritas = :prioritas, jam_datang = :jam_datang, jam_respon = :jam_respon,
			jam_dokter = :jam_dokter, jam_konsul = :jam_konsul,
			jam_respon_spesialis = :jam_respon_spesialis, dpjp = :dpjp,
			dokter_spesialis = :dokter_spesialis, ket = :ket, ruangan = :ruangan,
			masalah = :masalah
		WHERE id = :id
	`
	res, err := s.DB.NamedExecContext(ctx, query, p)
	if err != nil {
		return fmt.Errorf("%w: gagal mengupdate pasien: %v", store.ErrRemote, err)
	}
	return checkAffected(res)
}

func (s *PasienStore) Delete(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM igd_pasien WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: gagal menghapus pasien: %v", store.ErrRemote, err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrRemote, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
