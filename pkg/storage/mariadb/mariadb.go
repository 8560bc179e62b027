package mariadb

import (
	"fmt"
	"sync"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/c14220110/igd-dashboard/config"
)

var (
	db *sqlx.DB
	mu sync.Mutex
)

// DSN menyusun DSN MariaDB dari config.
// clientFoundRows membuat UPDATE tanpa perubahan tetap dihitung sebagai baris ditemukan.
func DSN(cfg *config.Config) string {
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPassword
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%s", cfg.DBHost, cfg.DBPort)
	mc.DBName = cfg.DBName
	mc.ClientFoundRows = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// Connect membuka koneksi ke database MariaDB.
// Semua kredensial diambil dari file .env melalui config.go.
// Koneksi hanya disimpan bila berhasil, jadi pemanggilan berikutnya mencoba lagi setelah gagal.
func Connect(cfg *config.Config) (*sqlx.DB, error) {
	mu.Lock()
	defer mu.Unlock()
	if db != nil {
		return db, nil
	}

	conn, err := sqlx.Connect("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("gagal terhubung ke MariaDB: %w", err)
	}
	if err := EnsureSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	db = conn
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS igd_pasien (
	id                   VARCHAR(64)  NOT NULL PRIMARY KEY,
	no_urut              VARCHAR(32)  NOT NULL DEFAULT '',
	tanggal              VARCHAR(10)  NOT NULL DEFAULT '',
	no_kib               VARCHAR(64)  NOT NULL DEFAULT '',
	nama_pasien          VARCHAR(255) NOT NULL DEFAULT '',
	prioritas            VARCHAR(4)   NOT NULL DEFAULT '',
	jam_datang           VARCHAR(8)   NOT NULL DEFAULT '',
	jam_respon           VARCHAR(8)   NOT NULL DEFAULT '',
	jam_dokter           VARCHAR(8)   NOT NULL DEFAULT '',
	jam_konsul           VARCHAR(8)   NOT NULL DEFAULT '',
	jam_respon_spesialis VARCHAR(8)   NOT NULL DEFAULT '',
	dpjp                 VARCHAR(255) NOT NULL DEFAULT '',
	dokter_spesialis     VARCHAR(255) NOT NULL DEFAULT '',
	ket                  VARCHAR(32)  NOT NULL DEFAULT '',
	ruangan              VARCHAR(128) NOT NULL DEFAULT '',
	masalah              TEXT,
	created_at           VARCHAR(32)  NOT NULL DEFAULT '',
	seq                  BIGINT       NOT NULL AUTO_INCREMENT UNIQUE
) DEFAULT CHARSET=utf8mb4`

func EnsureSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("gagal membuat tabel igd_pasien: %w", err)
	}
	return nil
}
