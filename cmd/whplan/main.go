// Command whplan plans collision-free multi-robot action schedules for
// automated warehouse instances.
package main

func main() {
	Execute()
}
