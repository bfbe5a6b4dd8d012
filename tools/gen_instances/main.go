// Package main generates deterministic warehouse benchmark instances in
// the YAML format the loader reads.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Params defines generation parameters.
type Params struct {
	Seed     int64 `yaml:"seed"`
	Width    int   `yaml:"width"`
	Height   int   `yaml:"height"`
	Robots   int   `yaml:"robots"`
	Shelves  int   `yaml:"shelves"`
	Stations int   `yaml:"stations"`
	Orders   int   `yaml:"orders"`
	Products int   `yaml:"products"`
	MaxUnits int   `yaml:"max_units"`
}

type cell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type station struct {
	ID int `yaml:"id"`
	X  int `yaml:"x"`
	Y  int `yaml:"y"`
}

type robot struct {
	ID int `yaml:"id"`
	X  int `yaml:"x"`
	Y  int `yaml:"y"`
}

type shelf struct {
	ID    int         `yaml:"id"`
	X     int         `yaml:"x"`
	Y     int         `yaml:"y"`
	Stock map[int]int `yaml:"stock,omitempty"`
}

type order struct {
	ID      int         `yaml:"id"`
	Station int         `yaml:"station"`
	Lines   map[int]int `yaml:"lines,omitempty"`
}

type instance struct {
	Name     string    `yaml:"name"`
	GridSpec grid      `yaml:"grid"`
	Highways []cell    `yaml:"highways,omitempty"`
	Stations []station `yaml:"stations"`
	Robots   []robot   `yaml:"robots"`
	Shelves  []shelf   `yaml:"shelves"`
	Orders   []order   `yaml:"orders"`
}

type grid struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func main() {
	params := Params{}
	flag.Int64Var(&params.Seed, "seed", 42, "random seed")
	flag.IntVar(&params.Width, "width", 6, "grid width")
	flag.IntVar(&params.Height, "height", 6, "grid height")
	flag.IntVar(&params.Robots, "robots", 2, "number of robots")
	flag.IntVar(&params.Shelves, "shelves", 3, "number of shelves")
	flag.IntVar(&params.Stations, "stations", 1, "number of picking stations")
	flag.IntVar(&params.Orders, "orders", 1, "number of orders")
	flag.IntVar(&params.Products, "products", 2, "number of products")
	flag.IntVar(&params.MaxUnits, "max-units", 3, "maximum units per stock or order line")
	count := flag.Int("count", 1, "instances to generate")
	outDir := flag.String("out", "instances", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for i := 0; i < *count; i++ {
		p := params
		p.Seed = params.Seed + int64(i)
		inst := generate(p)
		inst.Name = fmt.Sprintf("wh_%dx%d_r%d_s%d_%03d", p.Width, p.Height, p.Robots, p.Shelves, i)

		path := filepath.Join(*outDir, inst.Name+".yaml")
		if err := writeYAML(path, inst); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println("wrote", path)
	}
}

func generate(p Params) instance {
	rng := rand.New(rand.NewSource(p.Seed))
	inst := instance{GridSpec: grid{Width: p.Width, Height: p.Height}}

	// Reserve distinct cells for stations, robots and shelves. Shelves
	// additionally stay off the highway row below the stations.
	used := make(map[cell]bool)
	pick := func() cell {
		for {
			c := cell{X: 1 + rng.Intn(p.Width), Y: 1 + rng.Intn(p.Height)}
			if !used[c] {
				used[c] = true
				return c
			}
		}
	}

	for id := 1; id <= p.Stations; id++ {
		c := cell{X: 1 + rng.Intn(p.Width), Y: 1}
		for used[c] {
			c.X = 1 + rng.Intn(p.Width)
		}
		used[c] = true
		inst.Stations = append(inst.Stations, station{ID: id, X: c.X, Y: c.Y})
		// Keep the aisle in front of each station shelf-free.
		if p.Height >= 2 {
			inst.Highways = append(inst.Highways, cell{X: c.X, Y: 2})
		}
	}
	for _, h := range inst.Highways {
		used[h] = true
	}

	for id := 1; id <= p.Robots; id++ {
		c := pick()
		inst.Robots = append(inst.Robots, robot{ID: id, X: c.X, Y: c.Y})
	}

	for id := 1; id <= p.Shelves; id++ {
		c := pick()
		stock := make(map[int]int)
		for prod := 1; prod <= p.Products; prod++ {
			if rng.Intn(2) == 0 {
				stock[prod] = 1 + rng.Intn(p.MaxUnits)
			}
		}
		inst.Shelves = append(inst.Shelves, shelf{ID: id, X: c.X, Y: c.Y, Stock: stock})
	}

	for id := 1; id <= p.Orders; id++ {
		lines := make(map[int]int)
		prod := 1 + rng.Intn(p.Products)
		// Order only what the shelves collectively stock.
		avail := 0
		for _, s := range inst.Shelves {
			avail += s.Stock[prod]
		}
		if avail == 0 {
			// Top up a random shelf so the order is satisfiable.
			s := &inst.Shelves[rng.Intn(len(inst.Shelves))]
			s.Stock[prod] = 1 + rng.Intn(p.MaxUnits)
			avail = s.Stock[prod]
		}
		want := 1 + rng.Intn(avail)
		if want > p.MaxUnits {
			want = p.MaxUnits
		}
		lines[prod] = want
		inst.Orders = append(inst.Orders, order{
			ID:      id,
			Station: 1 + rng.Intn(p.Stations),
			Lines:   lines,
		})
	}

	return inst
}

func writeYAML(path string, inst instance) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()
	return enc.Encode(inst)
}
