// Package catalog provides level catalogs for Arrow Bot.
//
// The catalog package handles:
//   - Building immutable, validated, ordered level lists
//   - Loading catalogs from JSON or YAML files
//   - Caching and listing the catalogs found in a levels directory
//   - The built-in "classic" catalog of thirty levels
//
// Catalog Format:
//
// A catalog file has a name, a description and an ordered list of levels.
// A level is described either by coordinates or by a square layout:
//
//	name: Starter
//	description: Warm-up levels
//	levels:
//	  - name: Straight line
//	    grid_size: 4
//	    start: {x: 0, y: 1}
//	    goal: {x: 3, y: 1}
//	    obstacles: []
//	  - name: Detour
//	    layout:
//	      - "S#.."
//	      - "..#G"
//	      - "...."
//	      - "...."
//
// Validation:
//
// Every level is validated when its catalog is built. A catalog containing a
// malformed level is rejected as a whole, so a malformed level is never
// reachable through Get.
//
// Usage:
//
//	manager, err := catalog.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	levels, err := manager.LoadCatalog("starter")
//	level, err := levels.Get(0)
package catalog
