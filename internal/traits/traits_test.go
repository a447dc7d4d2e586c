// internal/traits/traits_test.go
package traits

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RomanSery/rent-day-sub000/internal/models"
)

func TestClassTable(t *testing.T) {
	gambler := For(models.ClassGambler)
	assert.Equal(t, 200, gambler.Salary)
	assert.Equal(t, 3, gambler.StartingSkills.Luck)
	assert.Equal(t, 10, gambler.LottoPercentBonus)
	assert.Equal(t, 1.0, gambler.TaxMultiplier)

	conductor := For(models.ClassConductor)
	assert.Equal(t, 200, conductor.Salary)
	assert.Equal(t, 0.95, conductor.TaxMultiplier)
	assert.True(t, conductor.CanTravel)

	governor := For(models.ClassGovernor)
	assert.Equal(t, 0.9, governor.TaxMultiplier)
	assert.True(t, governor.ElectricityImmunity)

	banker := For(models.ClassBanker)
	assert.Equal(t, 250, banker.Salary)
	assert.Equal(t, 0.85, banker.TaxMultiplier)
	assert.Equal(t, 2, banker.StartingSkills.Corruption)
}

func TestEveryClassStartsWithOneAbilityPoint(t *testing.T) {
	for _, class := range models.PlayerClasses {
		assert.Equal(t, 1, For(class).StartingSkills.AbilityPoints, string(class))
	}
}

func TestEveryKnownClassHasATraitRecord(t *testing.T) {
	for _, class := range models.PlayerClasses {
		assert.True(t, Valid(class), string(class))
		assert.Equal(t, class, For(class).Class)
	}
}

func TestForFallsBackToGambler(t *testing.T) {
	unknown := For(models.PlayerClass("WIZARD"))
	assert.Equal(t, models.ClassGambler, unknown.Class)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(models.ClassBanker))
	assert.False(t, Valid(models.PlayerClass("WIZARD")))
	assert.False(t, Valid(models.PlayerClass("")))
}
