package costing

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindMass Kind = iota + 1
	KindVolume
	KindCount
)

func (k Kind) String() string {
	switch k {
	case KindMass:
		return "mass"
	case KindVolume:
		return "volume"
	case KindCount:
		return "count"
	}
	return "unknown"
}

// Unit is any measurement unit a quantity can be entered in.
type Unit string

const (
	UnitMg     Unit = "mg"
	UnitG      Unit = "g"
	UnitKg     Unit = "kg"
	UnitOz     Unit = "oz"
	UnitLb     Unit = "lb"
	UnitMl     Unit = "ml"
	UnitL      Unit = "l"
	UnitTsp    Unit = "tsp"
	UnitTbsp   Unit = "tbsp"
	UnitCup    Unit = "cup"
	UnitFlOz   Unit = "floz"
	UnitPint   Unit = "pint"
	UnitQuart  Unit = "quart"
	UnitGallon Unit = "gallon"
	UnitEach   Unit = "each"
	UnitSlices Unit = "slices"
)

// BaseUnit is one of the four canonical storage units.
type BaseUnit = Unit

const (
	BaseGram   BaseUnit = UnitG
	BaseMl     BaseUnit = UnitMl
	BaseEach   BaseUnit = UnitEach
	BaseSlices BaseUnit = UnitSlices
)

type unitDef struct {
	kind   Kind
	base   BaseUnit
	factor float64 // amount * factor = amount in base
}

// US customary volumes, international avoirdupois mass.
var unitTable = map[Unit]unitDef{
	UnitMg: {KindMass, BaseGram, 0.001},
	UnitG:  {KindMass, BaseGram, 1},
	UnitKg: {KindMass, BaseGram, 1000},
	UnitOz: {KindMass, BaseGram, 28.349523125},
	UnitLb: {KindMass, BaseGram, 453.59237},

	UnitMl:     {KindVolume, BaseMl, 1},
	UnitL:      {KindVolume, BaseMl, 1000},
	UnitTsp:    {KindVolume, BaseMl, 4.92892159375},
	UnitTbsp:   {KindVolume, BaseMl, 14.78676478125},
	UnitCup:    {KindVolume, BaseMl, 236.5882365},
	UnitFlOz:   {KindVolume, BaseMl, 29.5735295625},
	UnitPint:   {KindVolume, BaseMl, 473.176473},
	UnitQuart:  {KindVolume, BaseMl, 946.352946},
	UnitGallon: {KindVolume, BaseMl, 3785.411784},

	UnitEach:   {KindCount, BaseEach, 1},
	UnitSlices: {KindCount, BaseSlices, 1},
}

var unitAliases = map[string]Unit{
	"milligram": UnitMg, "milligrams": UnitMg,
	"gram": UnitG, "grams": UnitG, "gr": UnitG,
	"kilogram": UnitKg, "kilograms": UnitKg, "kgs": UnitKg,
	"ounce": UnitOz, "ounces": UnitOz,
	"pound": UnitLb, "pounds": UnitLb, "lbs": UnitLb,
	"milliliter": UnitMl, "milliliters": UnitMl, "millilitre": UnitMl, "millilitres": UnitMl,
	"liter": UnitL, "liters": UnitL, "litre": UnitL, "litres": UnitL,
	"teaspoon": UnitTsp, "teaspoons": UnitTsp,
	"tablespoon": UnitTbsp, "tablespoons": UnitTbsp,
	"cups": UnitCup,
	"fl-oz": UnitFlOz, "fl oz": UnitFlOz, "fl_oz": UnitFlOz,
	"pints": UnitPint, "quarts": UnitQuart, "gallons": UnitGallon,
	"ea": UnitEach, "pcs": UnitEach, "piece": UnitEach, "pieces": UnitEach,
	"slice": UnitSlices,
}

// Quantity is an amount paired with the unit it is expressed in.
type Quantity struct {
	Amount float64
	Unit   Unit
}

// ParseUnit resolves user input such as "Grams" or "fl oz" to a Unit.
func ParseUnit(s string) (Unit, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if _, ok := unitTable[Unit(key)]; ok {
		return Unit(key), nil
	}
	if u, ok := unitAliases[key]; ok {
		return u, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

func lookupUnit(u Unit) (unitDef, error) {
	def, ok := unitTable[u]
	if !ok {
		return unitDef{}, fmt.Errorf("%w: %q", ErrUnknownUnit, string(u))
	}
	return def, nil
}

// KindOf reports the measurement kind of u.
func KindOf(u Unit) (Kind, error) {
	def, err := lookupUnit(u)
	if err != nil {
		return 0, err
	}
	return def.kind, nil
}

// BaseOf reports the canonical storage unit for u.
func BaseOf(u Unit) (BaseUnit, error) {
	def, err := lookupUnit(u)
	if err != nil {
		return "", err
	}
	return def.base, nil
}

// IsBaseUnit reports whether u is one of g, ml, each, slices.
func IsBaseUnit(u Unit) bool {
	def, ok := unitTable[u]
	return ok && def.base == u
}

// Units lists every supported unit.
func Units() []Unit {
	units := make([]Unit, 0, len(unitTable))
	for u := range unitTable {
		units = append(units, u)
	}
	return units
}

// ToBase converts amount in unit to the canonical unit of its kind.
func ToBase(amount float64, unit Unit) (Quantity, error) {
	def, err := lookupUnit(unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Amount: amount * def.factor, Unit: def.base}, nil
}

// FromBase converts an amount held in base back into target. A density in
// grams per millilitre bridges mass and volume; count units never bridge.
func FromBase(amount float64, base BaseUnit, target Unit, densityGPerMl *float64) (float64, error) {
	from, err := lookupUnit(base)
	if err != nil {
		return 0, err
	}
	if from.base != base {
		return 0, fmt.Errorf("%w: %q is not a base unit", ErrUnknownUnit, string(base))
	}
	to, err := lookupUnit(target)
	if err != nil {
		return 0, err
	}
	bridged, err := bridge(amount, from, to, densityGPerMl)
	if err != nil {
		return 0, err
	}
	return bridged / to.factor, nil
}

// Convert expresses amount of from in to, bridging mass and volume through
// densityGPerMl when the kinds differ.
func Convert(amount float64, from, to Unit, densityGPerMl *float64) (float64, error) {
	q, err := ToBase(amount, from)
	if err != nil {
		return 0, err
	}
	return FromBase(q.Amount, q.Unit, to, densityGPerMl)
}

// bridge moves a base-unit amount from one kind's base into the other's.
func bridge(amount float64, from, to unitDef, densityGPerMl *float64) (float64, error) {
	if from.base == to.base {
		return amount, nil
	}
	if from.kind == KindCount || to.kind == KindCount || from.kind == to.kind {
		return 0, fmt.Errorf("%w: %s to %s", ErrIncompatibleUnitKind, from.base, to.base)
	}
	if densityGPerMl == nil || *densityGPerMl <= 0 {
		return 0, fmt.Errorf("%w: %s to %s needs a density", ErrIncompatibleUnitKind, from.base, to.base)
	}
	if from.kind == KindVolume {
		return amount * *densityGPerMl, nil
	}
	return amount / *densityGPerMl, nil
}
