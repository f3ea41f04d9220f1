package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyOperators(t *testing.T) {
	assert.Equal(t, 7.0, Apply(OpAdd, 5, 2))
	assert.Equal(t, 10.0, Apply(OpMultiply, 5, 2))
	assert.Equal(t, 2.5, Apply(OpDivide, 5, 2))
	assert.Equal(t, 2.0, Apply(OpFloorDiv, 5, 2))
	assert.Equal(t, 12.0, Apply(OpPercentOf, 50, 25))
}

func TestApplyFloorDivRoundsDown(t *testing.T) {
	assert.Equal(t, 3.0, Apply(OpFloorDiv, 7, 2))
	assert.Equal(t, 0.0, Apply(OpFloorDiv, 1, 2))
}

func TestApplyDivideByZeroIsNoop(t *testing.T) {
	assert.Equal(t, 5.0, Apply(OpDivide, 5, 0))
	assert.Equal(t, 5.0, Apply(OpFloorDiv, 5, 0))
}

func TestApplyUnknownOpIsNoop(t *testing.T) {
	assert.Equal(t, 5.0, Apply(Op("exec"), 5, 99))
}

func TestStatDefEval(t *testing.T) {
	d := StatDef{Op: OpFloorDiv, Operand: 2, Source: "strength"}
	got := d.Eval(map[string]float64{"strength": 7})
	assert.Equal(t, 3.0, got)
}
