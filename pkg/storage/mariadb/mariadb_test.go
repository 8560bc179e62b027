package mariadb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c14220110/igd-dashboard/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(&config.Config{
		DBUser:     "igd",
		DBPassword: "rahasia",
		DBHost:     "db.local",
		DBPort:     "3307",
		DBName:     "igd",
	})

	assert.True(t, strings.HasPrefix(dsn, "igd:rahasia@tcp(db.local:3307)/igd?"), dsn)
	assert.Contains(t, dsn, "clientFoundRows=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestConnect_RetriesAfterFailure(t *testing.T) {
	cfg := &config.Config{DBUser: "u", DBPassword: "p", DBHost: "127.0.0.1", DBPort: "1", DBName: "x"}

	for i := 0; i < 2; i++ {
		conn, err := Connect(cfg)
		require.Error(t, err)
		assert.Nil(t, conn)
		assert.Contains(t, err.Error(), "gagal terhubung ke MariaDB")
	}
}
