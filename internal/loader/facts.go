// Package loader parses warehouse instances from their external
// representations into domain entities. Two formats are supported: the
// init-fact text format produced by the upstream instance tooling, and a
// YAML format used by gen_instances.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/warehouse-planner/internal/core"
)

// Fact patterns, one per object/attribute combination:
//
//	init(object(robot,1), value(at, pair(4,3))).
//	init(object(product,1), value(on, pair(3,2))).
//	init(object(order,1), value(line, pair(1,2))).
var (
	nodeRe         = regexp.MustCompile(`^init\(object\(node,\s*(\d+)\),\s*value\(at,\s*pair\((\d+),\s*(\d+)\)\)\)\.$`)
	highwayRe      = regexp.MustCompile(`^init\(object\(highway,\s*(\d+)\),\s*value\(at,\s*pair\((\d+),\s*(\d+)\)\)\)\.$`)
	stationRe      = regexp.MustCompile(`^init\(object\(pickingStation,\s*(\d+)\),\s*value\(at,\s*pair\((\d+),\s*(\d+)\)\)\)\.$`)
	robotRe        = regexp.MustCompile(`^init\(object\(robot,\s*(\d+)\),\s*value\(at,\s*pair\((\d+),\s*(\d+)\)\)\)\.$`)
	shelfRe        = regexp.MustCompile(`^init\(object\(shelf,\s*(\d+)\),\s*value\(at,\s*pair\((\d+),\s*(\d+)\)\)\)\.$`)
	productRe      = regexp.MustCompile(`^init\(object\(product,\s*(\d+)\),\s*value\(on,\s*pair\((\d+),\s*(\d+)\)\)\)\.$`)
	orderStationRe = regexp.MustCompile(`^init\(object\(order,\s*(\d+)\),\s*value\(pickingStation,\s*(\d+)\)\)\.$`)
	orderLineRe    = regexp.MustCompile(`^init\(object\(order,\s*(\d+)\),\s*value\(line,\s*pair\((\d+),\s*(\d+)\)\)\)\.$`)
)

// ParseFacts reads an instance from its init-fact representation. Facts
// may appear in any order; a shelf's stock may precede its position.
func ParseFacts(r io.Reader) (*core.Instance, error) {
	inst := core.NewInstance()

	robots := make(map[core.RobotID]core.Coord)
	shelfPos := make(map[core.ShelfID]core.Coord)
	shelfStock := make(map[core.ShelfID]map[core.ProductID]int)
	orderStation := make(map[core.OrderID]core.StationID)
	orderLines := make(map[core.OrderID]map[core.ProductID]int)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}

		switch {
		case match(nodeRe, line, func(v []int) {
			inst.Warehouse.AddNode(core.Coord{X: v[1], Y: v[2]})
		}):
		case match(highwayRe, line, func(v []int) {
			inst.Warehouse.AddHighway(core.Coord{X: v[1], Y: v[2]})
		}):
		case match(stationRe, line, func(v []int) {
			inst.Warehouse.AddStation(core.StationID(v[0]), core.Coord{X: v[1], Y: v[2]})
		}):
		case match(robotRe, line, func(v []int) {
			robots[core.RobotID(v[0])] = core.Coord{X: v[1], Y: v[2]}
		}):
		case match(shelfRe, line, func(v []int) {
			shelfPos[core.ShelfID(v[0])] = core.Coord{X: v[1], Y: v[2]}
		}):
		case match(productRe, line, func(v []int) {
			shelf := core.ShelfID(v[1])
			if shelfStock[shelf] == nil {
				shelfStock[shelf] = make(map[core.ProductID]int)
			}
			shelfStock[shelf][core.ProductID(v[0])] = v[2]
		}):
		case match(orderStationRe, line, func(v []int) {
			orderStation[core.OrderID(v[0])] = core.StationID(v[1])
		}):
		case match(orderLineRe, line, func(v []int) {
			order := core.OrderID(v[0])
			if orderLines[order] == nil {
				orderLines[order] = make(map[core.ProductID]int)
			}
			orderLines[order][core.ProductID(v[1])] += v[2]
		}):
		default:
			return nil, fmt.Errorf("%w: unrecognized fact at line %d: %s", core.ErrMalformed, lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for id, pos := range robots {
		inst.Robots = append(inst.Robots, &core.Robot{ID: id, Start: pos})
	}
	sort.Slice(inst.Robots, func(i, j int) bool { return inst.Robots[i].ID < inst.Robots[j].ID })

	for shelf := range shelfStock {
		if _, ok := shelfPos[shelf]; !ok {
			return nil, fmt.Errorf("%w: stock bound to unknown shelf %d", core.ErrMalformed, shelf)
		}
	}
	for id, pos := range shelfPos {
		stock := shelfStock[id]
		if stock == nil {
			stock = make(map[core.ProductID]int)
		}
		inst.Shelves = append(inst.Shelves, &core.Shelf{ID: id, Start: pos, Stock: stock})
	}
	sort.Slice(inst.Shelves, func(i, j int) bool { return inst.Shelves[i].ID < inst.Shelves[j].ID })

	for id := range orderLines {
		if _, ok := orderStation[id]; !ok {
			return nil, fmt.Errorf("%w: order %d has lines but no picking station", core.ErrMalformed, id)
		}
	}
	for id, station := range orderStation {
		lines := orderLines[id]
		if lines == nil {
			lines = make(map[core.ProductID]int)
		}
		inst.Orders = append(inst.Orders, &core.Order{ID: id, Station: station, Lines: lines})
	}
	sort.Slice(inst.Orders, func(i, j int) bool { return inst.Orders[i].ID < inst.Orders[j].ID })

	inst.DeriveBounds()
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// match runs the regexp and, on success, hands the integer captures to fn.
func match(re *regexp.Regexp, line string, fn func(v []int)) bool {
	groups := re.FindStringSubmatch(line)
	if groups == nil {
		return false
	}
	vals := make([]int, len(groups)-1)
	for i, g := range groups[1:] {
		n, err := strconv.Atoi(g)
		if err != nil {
			return false
		}
		vals[i] = n
	}
	fn(vals)
	return true
}
