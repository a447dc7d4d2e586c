// internal/traits/traits.go
package traits

import "github.com/RomanSery/rent-day-sub000/internal/models"

// Trait is the per-class policy record. Class behavior is data-driven
// through this table rather than dispatched through subtypes, so the set of
// classes stays closed and exhaustively checkable.
type Trait struct {
	Class models.PlayerClass

	// Salary is the pay-day credit for crossing the board start.
	Salary int

	// StartingSkills seed the player's skill points on join.
	StartingSkills models.Skills

	// TaxMultiplier scales the player's total tax before the corruption
	// reduction (1.0 = no class discount).
	TaxMultiplier float64

	// LottoPercentBonus is added to every lotto/treasure option's win percent.
	LottoPercentBonus int

	// ElectricityImmunity zeroes the player's electricity costs entirely.
	ElectricityImmunity bool

	// CanTravel marks the class allowed to travel between owned stations.
	CanTravel bool
}

var table = map[models.PlayerClass]Trait{
	models.ClassGambler: {
		Class:             models.ClassGambler,
		Salary:            200,
		StartingSkills:    models.Skills{Luck: 3, AbilityPoints: 1},
		TaxMultiplier:     1.0,
		LottoPercentBonus: 10,
	},
	models.ClassConductor: {
		Class:          models.ClassConductor,
		Salary:         200,
		StartingSkills: models.Skills{Negotiation: 1, Luck: 1, AbilityPoints: 1},
		TaxMultiplier:  0.95,
		CanTravel:      true,
	},
	models.ClassGovernor: {
		Class:               models.ClassGovernor,
		Salary:              200,
		StartingSkills:      models.Skills{Negotiation: 2, Corruption: 1, AbilityPoints: 1},
		TaxMultiplier:       0.9,
		ElectricityImmunity: true,
	},
	models.ClassBanker: {
		Class:          models.ClassBanker,
		Salary:         250,
		StartingSkills: models.Skills{Negotiation: 1, Corruption: 2, AbilityPoints: 1},
		TaxMultiplier:  0.85,
	},
}

func init() {
	for _, c := range models.PlayerClasses {
		if _, ok := table[c]; !ok {
			panic("traits: no trait record for class " + string(c))
		}
	}
}

// For returns the trait record for a class. Unknown classes fall back to the
// Gambler record so a corrupted document cannot panic the engine.
func For(class models.PlayerClass) Trait {
	if t, ok := table[class]; ok {
		return t
	}
	return table[models.ClassGambler]
}

// Valid reports whether the class is one of the four known classes.
func Valid(class models.PlayerClass) bool {
	_, ok := table[class]
	return ok
}
