package store

import (
	"testing"

	"github.com/c14220110/igd-dashboard/internal/igd/models"
	"github.com/stretchr/testify/assert"
)

func TestToRowCoversEveryColumn(t *testing.T) {
	row := ToRow(models.Pasien{})
	assert.Len(t, row, len(Columns))
	for _, col := range Columns {
		_, ok := row[col]
		assert.True(t, ok, "kolom %s tidak dipetakan", col)
	}
}

func TestFromRowIgnoresUnknownHeaders(t *testing.T) {
	p := FromRow(map[string]string{
		"id":         "abc",
		"namaPasien": "Budi",
		"jamDatang":  "14:30",
		"kolomLain":  "x",
	})
	assert.Equal(t, "abc", p.ID)
	assert.Equal(t, "Budi", p.NamaPasien)
	assert.Equal(t, "14:30", p.JamDatang)
	assert.Equal(t, "", p.Ket)
}
