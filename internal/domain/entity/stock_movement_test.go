package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-inventory/internal/domain/entity"
)

func TestMovementType_Clasificacion(t *testing.T) {
	assert.ElementsMatch(t,
		[]entity.MovementType{entity.MovementTypePurchase, entity.MovementTypeAdjustmentIn, entity.MovementTypeReturn},
		entity.TypesByDirection(entity.DirectionIncoming))
	assert.ElementsMatch(t,
		[]entity.MovementType{entity.MovementTypeSale, entity.MovementTypeAdjustmentOut, entity.MovementTypeDamage},
		entity.TypesByDirection(entity.DirectionOutgoing))

	assert.Equal(t, entity.DirectionNone, entity.MovementTypeCorrection.Direction())
	assert.True(t, entity.MovementTypeCorrection.IsAdjustment())
	assert.False(t, entity.MovementTypePurchase.IsAdjustment())
	assert.False(t, entity.MovementTypeSale.IsAdjustment())
}

func TestMovementType_Labels(t *testing.T) {
	assert.Equal(t, "Adjustment Masuk", entity.MovementTypeAdjustmentIn.Label())
	assert.Equal(t, "Adjustment Keluar", entity.MovementTypeAdjustmentOut.Label())
	assert.Equal(t, "Return Barang", entity.MovementTypeReturn.Label())
	assert.Equal(t, "Barang Rusak", entity.MovementTypeDamage.Label())
	assert.Equal(t, "Koreksi Stok", entity.MovementTypeCorrection.Label())
	assert.Equal(t, "desconocido", entity.MovementType("desconocido").Label())
}

func TestParseMovementType(t *testing.T) {
	mt, ok := entity.ParseMovementType("damage")
	assert.True(t, ok)
	assert.Equal(t, entity.MovementTypeDamage, mt)

	_, ok = entity.ParseMovementType("transfer")
	assert.False(t, ok)
}
