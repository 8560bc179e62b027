package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c14220110/igd-dashboard/internal/igd/models"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWTToken("rahasia", "perawat1", "operator", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := ValidateJWTToken("rahasia", token)
	require.NoError(t, err)
	assert.Equal(t, "perawat1", claims.Username)
	assert.Equal(t, "operator", claims.Role)
}

func TestJWTRejectsWrongSecretAndExpired(t *testing.T) {
	token, err := GenerateJWTToken("rahasia", "perawat1", "operator", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = ValidateJWTToken("lain", token)
	assert.Error(t, err)

	expired, err := GenerateJWTToken("rahasia", "perawat1", "operator", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = ValidateJWTToken("rahasia", expired)
	assert.Error(t, err)
}

func TestJWTMissingSecret(t *testing.T) {
	_, err := GenerateJWTToken("", "x", "operator", time.Now().Add(time.Hour))
	assert.Error(t, err)
}

func validPasien() models.Pasien {
	return models.Pasien{
		Tanggal:    "2024-01-10",
		NoKIB:      "123456",
		NamaPasien: "Budi",
		Prioritas:  models.P2,
		JamDatang:  "14:30",
		JamRespon:  "-",
		Ket:        models.KetRawatInap,
	}
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(validPasien()))

	t.Run("prioritas di luar P1-P5", func(t *testing.T) {
		p := validPasien()
		p.Prioritas = "P6"
		assert.Error(t, ValidateStruct(p))
	})

	t.Run("ket tidak dikenal", func(t *testing.T) {
		p := validPasien()
		p.Ket = "Pulang"
		assert.Error(t, ValidateStruct(p))
	})

	t.Run("ket kosong boleh", func(t *testing.T) {
		p := validPasien()
		p.Ket = ""
		assert.NoError(t, ValidateStruct(p))
	})

	t.Run("jam tidak valid", func(t *testing.T) {
		p := validPasien()
		p.JamDokter = "25:99"
		err := ValidateStruct(p)
		require.Error(t, err)
		assert.Contains(t, ValidationMessage(err), "JamDokter")
	})

	t.Run("tanggal bukan ISO", func(t *testing.T) {
		p := validPasien()
		p.Tanggal = "10/01/2024"
		assert.Error(t, ValidateStruct(p))
	})
}
