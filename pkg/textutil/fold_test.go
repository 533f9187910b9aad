package textutil_test

import (
	"testing"

	"github.com/jhoicas/Distribucion-api/pkg/textutil"
	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "facturacion", textutil.Fold("Facturación"))
	assert.Equal(t, "remision 5", textutil.Fold("  REMISIÓN 5 "))
	assert.Equal(t, "", textutil.Fold(""))
}

func TestContains(t *testing.T) {
	assert.True(t, textutil.Contains("", "lo que sea"))
	assert.True(t, textutil.Contains("logistica", "FAC-001", "Servicios de Logística"))
	assert.True(t, textutil.Contains("FAC-0", "fac-001"))
	assert.False(t, textutil.Contains("bodega", "FAC-001", "Servicios"))
}
