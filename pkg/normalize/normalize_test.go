package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/pkg/normalize"
)

func TestSearchKey_QuitaAcentosYMayusculas(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Téléphone", "telephone"},
		{"CAFÉ con Leche", "cafe con leche"},
		{"Azúcar", "azucar"},
		{"  Añejo  ", "anejo"},
		{"sin acentos", "sin acentos"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalize.SearchKey(tc.in), "entrada %q", tc.in)
	}
}

func TestSearchKey_MismaClaveParaVariantes(t *testing.T) {
	assert.Equal(t, normalize.SearchKey("Téléphone"), normalize.SearchKey("TELEPHONE"))
	assert.Equal(t, normalize.SearchKey("café"), normalize.SearchKey("Cafe"))
}
