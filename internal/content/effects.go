package content

import "math"

// Op - именованный оператор статового эффекта. Закрытое множество
// операторов, исполняемых безопасным интерпретатором: конфигурируемость
// данных сохраняется, но никакого исполняемого кода в рантайме.
type Op string

const (
	OpAdd       Op = "add"
	OpMultiply  Op = "multiply"
	OpDivide    Op = "divide"
	OpFloorDiv  Op = "floorDivide"
	OpPercentOf Op = "percentOf"
)

// Trigger - момент, в который срабатывает стат-определение.
type Trigger string

const (
	// TriggerAttackMod - постоянный модификатор урона атакующего
	TriggerAttackMod Trigger = "attack_mod"
	// TriggerChanceOnAttack - шансовый эффект атакующего (крит)
	TriggerChanceOnAttack Trigger = "chance_on_attack"
	// TriggerChanceOnDefend - шансовый эффект защищающегося (уворот)
	TriggerChanceOnDefend Trigger = "chance_on_defend"
)

// StatDef - data-driven определение эффекта. Читает Source из числового
// контекста боя, применяет Op с Operand и пишет результат в Target.
// Шансовые определения бросаются против [0, 100); ChanceAbility
// добавляет значение характеристики носителя к базовому шансу.
type StatDef struct {
	ID            string  `json:"id"`
	Trigger       Trigger `json:"trigger"`
	Chance        float64 `json:"chance,omitempty"`
	ChanceAbility string  `json:"chanceAbility,omitempty"`
	Op            Op      `json:"op"`
	Operand       float64 `json:"operand"`
	Source        string  `json:"source"`
	Target        string  `json:"target"`
}

// Apply исполняет один оператор. Неизвестный оператор возвращает
// значение без изменений - контент с опечаткой не роняет бой.
func Apply(op Op, value, operand float64) float64 {
	switch op {
	case OpAdd:
		return value + operand
	case OpMultiply:
		return value * operand
	case OpDivide:
		if operand == 0 {
			return value
		}
		return value / operand
	case OpFloorDiv:
		if operand == 0 {
			return value
		}
		return math.Floor(value / operand)
	case OpPercentOf:
		return math.Floor(value * operand / 100.0)
	}
	return value
}

// Eval применяет определение к контексту и возвращает новый контекст-таргет.
func (d StatDef) Eval(ctx map[string]float64) float64 {
	return Apply(d.Op, ctx[d.Source], d.Operand)
}
