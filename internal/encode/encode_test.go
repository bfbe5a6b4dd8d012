package encode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/warehouse-planner/internal/core"
)

func sampleResult() *core.Result {
	return &core.Result{
		Status:   core.StatusOptimal,
		Makespan: 5,
		Proven:   true,
		Plan: core.Plan{
			{Robot: 1, Action: core.Move(-1, 0), Time: 1},
			{Robot: 1, Action: core.Pickup(), Time: 2},
			{Robot: 1, Action: core.Move(-1, 0), Time: 3},
			{Robot: 1, Action: core.Move(-1, 0), Time: 4},
			{Robot: 1, Action: core.Deliver(1, 1, 2), Time: 5},
		},
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	res := sampleResult()
	doc := Document(res, 7)

	assert.Equal(t, "optimal", doc.Status)
	assert.Equal(t, 5, doc.Makespan)
	assert.Equal(t, 7, doc.Horizon)
	assert.True(t, doc.Proven)
	require.Len(t, doc.Actions, len(res.Plan))

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, doc))

	back, plan, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
	assert.Equal(t, res.Plan, plan)
}

func TestReadJSONRejectsUnknownAction(t *testing.T) {
	in := `{"status":"feasible","actions":[{"robot":1,"type":"teleport","t":1}]}`
	_, _, err := ReadJSON(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleport")
}

func TestAtoms(t *testing.T) {
	atoms := Atoms(sampleResult().Plan)
	require.Len(t, atoms, 5)
	assert.Equal(t, "occurs(object(robot,1), move(-1,0), 1).", atoms[0])
	assert.Equal(t, "occurs(object(robot,1), pickup, 2).", atoms[1])
	assert.Equal(t, "occurs(object(robot,1), deliver(1,1,2), 5).", atoms[4])
}

func TestAtomsEmptyPlan(t *testing.T) {
	assert.Empty(t, Atoms(nil))
}
