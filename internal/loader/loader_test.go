package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/warehouse-planner/internal/core"
)

const factsSample = `% 4x4 grid, one robot, one shelf, one order.
init(object(node,1), value(at, pair(1,1))).
init(object(node,2), value(at, pair(2,1))).
init(object(node,3), value(at, pair(3,1))).
init(object(node,4), value(at, pair(4,1))).
init(object(node,5), value(at, pair(1,2))).
init(object(node,6), value(at, pair(2,2))).
init(object(node,7), value(at, pair(3,2))).
init(object(node,8), value(at, pair(4,2))).
init(object(node,9), value(at, pair(1,3))).
init(object(node,10), value(at, pair(2,3))).
init(object(node,11), value(at, pair(3,3))).
init(object(node,12), value(at, pair(4,3))).
init(object(node,13), value(at, pair(1,4))).
init(object(node,14), value(at, pair(2,4))).
init(object(node,15), value(at, pair(3,4))).
init(object(node,16), value(at, pair(4,4))).
init(object(highway,1), value(at, pair(1,4))).
init(object(pickingStation,1), value(at, pair(1,3))).
init(object(robot,1), value(at, pair(4,3))).
init(object(shelf,1), value(at, pair(3,3))).
init(object(product,1), value(on, pair(1,2))).
init(object(order,1), value(pickingStation, 1)).
init(object(order,1), value(line, pair(1,2))).
`

func TestParseFacts(t *testing.T) {
	inst, err := ParseFacts(strings.NewReader(factsSample))
	require.NoError(t, err)

	assert.True(t, inst.Warehouse.IsNode(core.Coord{X: 4, Y: 4}))
	assert.True(t, inst.Warehouse.IsHighway(core.Coord{X: 1, Y: 4}))
	assert.Equal(t, core.Coord{X: 1, Y: 3}, inst.Warehouse.Stations[1])

	require.Len(t, inst.Robots, 1)
	assert.Equal(t, core.Coord{X: 4, Y: 3}, inst.Robots[0].Start)

	require.Len(t, inst.Shelves, 1)
	assert.Equal(t, core.Coord{X: 3, Y: 3}, inst.Shelves[0].Start)
	assert.Equal(t, 2, inst.Shelves[0].Stock[1])

	require.Len(t, inst.Orders, 1)
	assert.Equal(t, core.StationID(1), inst.Orders[0].Station)
	assert.Equal(t, 2, inst.Orders[0].Lines[1])

	assert.Equal(t, 2, inst.UnitBound)
	assert.Equal(t, []core.ProductID{1}, inst.Products)
}

func TestParseFactsEntitiesSortedByID(t *testing.T) {
	input := `init(object(node,1), value(at, pair(1,1))).
init(object(node,2), value(at, pair(2,1))).
init(object(node,3), value(at, pair(3,1))).
init(object(robot,2), value(at, pair(2,1))).
init(object(robot,1), value(at, pair(1,1))).
`
	inst, err := ParseFacts(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, inst.Robots, 2)
	assert.Equal(t, core.RobotID(1), inst.Robots[0].ID)
	assert.Equal(t, core.RobotID(2), inst.Robots[1].ID)
}

func TestParseFactsRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unrecognized fact", "init(object(teleporter,1), value(at, pair(1,1))).\n"},
		{"stock bound to unknown shelf", `init(object(node,1), value(at, pair(1,1))).
init(object(product,1), value(on, pair(7,2))).
`},
		{"order lines without station", `init(object(node,1), value(at, pair(1,1))).
init(object(order,1), value(line, pair(1,2))).
`},
		{"robot off grid", `init(object(node,1), value(at, pair(1,1))).
init(object(robot,1), value(at, pair(5,5))).
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFacts(strings.NewReader(tt.input))
			require.ErrorIs(t, err, core.ErrMalformed)
		})
	}
}

const yamlSample = `name: sample
grid:
  width: 4
  height: 4
highways:
  - {x: 1, y: 4}
stations:
  - {id: 1, x: 1, y: 3}
robots:
  - {id: 1, x: 4, y: 3}
shelves:
  - id: 1
    x: 3
    y: 3
    stock:
      1: 2
orders:
  - id: 1
    station: 1
    lines:
      1: 2
`

func TestParseYAML(t *testing.T) {
	inst, err := ParseYAML(strings.NewReader(yamlSample))
	require.NoError(t, err)

	assert.True(t, inst.Warehouse.IsNode(core.Coord{X: 4, Y: 4}), "grid expands to full node set")
	assert.True(t, inst.Warehouse.IsHighway(core.Coord{X: 1, Y: 4}))
	require.Len(t, inst.Robots, 1)
	require.Len(t, inst.Shelves, 1)
	assert.Equal(t, 2, inst.Shelves[0].Stock[1])
	require.Len(t, inst.Orders, 1)
	assert.Equal(t, 2, inst.UnitBound)
}

func TestParseYAMLRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown field", "name: x\nflavor: spicy\n"},
		{"missing grid", "name: x\nrobots:\n  - {id: 1, x: 1, y: 1}\n"},
		{"shelf on highway", `grid: {width: 2, height: 2}
highways:
  - {x: 1, y: 1}
shelves:
  - {id: 1, x: 1, y: 1}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML(strings.NewReader(tt.input))
			require.ErrorIs(t, err, core.ErrMalformed)
		})
	}
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	factsPath := filepath.Join(dir, "inst.lp")
	require.NoError(t, os.WriteFile(factsPath, []byte(factsSample), 0o644))
	yamlPath := filepath.Join(dir, "inst.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlSample), 0o644))

	fromFacts, err := Load(factsPath)
	require.NoError(t, err)
	fromYAML, err := Load(yamlPath)
	require.NoError(t, err)

	assert.Equal(t, len(fromFacts.Robots), len(fromYAML.Robots))
	assert.Equal(t, fromFacts.Orders[0].Lines, fromYAML.Orders[0].Lines)

	otherPath := filepath.Join(dir, "inst.txt")
	require.NoError(t, os.WriteFile(otherPath, nil, 0o644))
	_, err = Load(otherPath)
	require.ErrorIs(t, err, core.ErrMalformed)
}
