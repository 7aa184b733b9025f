// Package vector loads ESRI vector sources into an in-memory record
// collection tagged with its coordinate reference system.
package vector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"

	"github.com/maplemark/vec2kml/internal/crs"
)

// Recognized source formats.
const (
	shpExt = ".shp"
	gdbExt = ".gdb"
)

// Record is one input row: its attribute values keyed by column name
// plus one geometry. Geometry may be nil for sparse data.
type Record struct {
	Tags     map[string]interface{}
	Geometry orb.Geometry
}

// Collection holds the loaded records and their EPSG code.
// EPSG 0 means the source did not declare a reference system.
type Collection struct {
	Records []Record
	EPSG    int
}

// Load reads a vector source resolved by its path: a .shp shapefile, or
// a feature class inside a .gdb file geodatabase. Anything else is a
// fatal format error.
func Load(path string) (*Collection, error) {
	switch {
	case strings.EqualFold(filepath.Ext(path), shpExt):
		return loadShapefile(path)
	case strings.Contains(strings.ToLower(path), gdbExt):
		container, class, err := splitGDBPath(path)
		if err != nil {
			return nil, err
		}
		return loadGDB(container, class)
	default:
		return nil, fmt.Errorf("format of %q not recognized, provide a shapefile (.shp) or a geodatabase feature class (.gdb)", path)
	}
}

// splitGDBPath separates a geodatabase path into the .gdb container and
// the feature class name, which is the final path segment.
func splitGDBPath(path string) (container, class string, err error) {
	i := strings.Index(strings.ToLower(path), gdbExt)
	container = path[:i+len(gdbExt)]

	class = filepath.Base(path)
	if class == filepath.Base(container) {
		return "", "", fmt.Errorf("geodatabase path %q is missing a feature class name", path)
	}

	return container, class, nil
}

// Reproject transforms all record coordinates into the target EPSG
// code. It is a no-op when the collection already matches the target or
// carries no reference system at all.
func (c *Collection) Reproject(target int) error {
	if c.EPSG == 0 || c.EPSG == target {
		return nil
	}

	f, err := crs.Transformer(c.EPSG, target)
	if err != nil {
		return err
	}

	for i := range c.Records {
		if c.Records[i].Geometry == nil {
			continue
		}
		c.Records[i].Geometry = crs.Apply(c.Records[i].Geometry, f)
	}
	c.EPSG = target

	return nil
}
