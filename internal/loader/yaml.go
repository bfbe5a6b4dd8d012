package loader

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/warehouse-planner/internal/core"
)

// yamlInstance mirrors the file layout emitted by tools/gen_instances.
// Cells are 1-based; when no explicit node list is given, every cell of
// the grid is traversable.
type yamlInstance struct {
	Name     string        `yaml:"name"`
	Grid     yamlGrid      `yaml:"grid"`
	Nodes    []yamlCell    `yaml:"nodes,omitempty"`
	Highways []yamlCell    `yaml:"highways,omitempty"`
	Stations []yamlStation `yaml:"stations"`
	Robots   []yamlRobot   `yaml:"robots"`
	Shelves  []yamlShelf   `yaml:"shelves"`
	Orders   []yamlOrder   `yaml:"orders"`
}

type yamlGrid struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type yamlCell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type yamlStation struct {
	ID int `yaml:"id"`
	X  int `yaml:"x"`
	Y  int `yaml:"y"`
}

type yamlRobot struct {
	ID int `yaml:"id"`
	X  int `yaml:"x"`
	Y  int `yaml:"y"`
}

type yamlShelf struct {
	ID    int         `yaml:"id"`
	X     int         `yaml:"x"`
	Y     int         `yaml:"y"`
	Stock map[int]int `yaml:"stock,omitempty"`
}

type yamlOrder struct {
	ID      int         `yaml:"id"`
	Station int         `yaml:"station"`
	Lines   map[int]int `yaml:"lines,omitempty"`
}

// ParseYAML reads an instance from its YAML representation.
func ParseYAML(r io.Reader) (*core.Instance, error) {
	var doc yamlInstance
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformed, err)
	}

	inst := core.NewInstance()

	if len(doc.Nodes) > 0 {
		for _, c := range doc.Nodes {
			inst.Warehouse.AddNode(core.Coord{X: c.X, Y: c.Y})
		}
	} else {
		if doc.Grid.Width <= 0 || doc.Grid.Height <= 0 {
			return nil, fmt.Errorf("%w: grid %dx%d", core.ErrMalformed, doc.Grid.Width, doc.Grid.Height)
		}
		for y := 1; y <= doc.Grid.Height; y++ {
			for x := 1; x <= doc.Grid.Width; x++ {
				inst.Warehouse.AddNode(core.Coord{X: x, Y: y})
			}
		}
	}

	for _, c := range doc.Highways {
		inst.Warehouse.AddHighway(core.Coord{X: c.X, Y: c.Y})
	}
	for _, s := range doc.Stations {
		inst.Warehouse.AddStation(core.StationID(s.ID), core.Coord{X: s.X, Y: s.Y})
	}

	for _, r := range doc.Robots {
		inst.Robots = append(inst.Robots, &core.Robot{
			ID:    core.RobotID(r.ID),
			Start: core.Coord{X: r.X, Y: r.Y},
		})
	}
	for _, s := range doc.Shelves {
		stock := make(map[core.ProductID]int, len(s.Stock))
		for p, q := range s.Stock {
			stock[core.ProductID(p)] = q
		}
		inst.Shelves = append(inst.Shelves, &core.Shelf{
			ID:    core.ShelfID(s.ID),
			Start: core.Coord{X: s.X, Y: s.Y},
			Stock: stock,
		})
	}
	for _, o := range doc.Orders {
		lines := make(map[core.ProductID]int, len(o.Lines))
		for p, q := range o.Lines {
			lines[core.ProductID(p)] = q
		}
		inst.Orders = append(inst.Orders, &core.Order{
			ID:      core.OrderID(o.ID),
			Station: core.StationID(o.Station),
			Lines:   lines,
		})
	}

	inst.DeriveBounds()
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}
