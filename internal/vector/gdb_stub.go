//go:build !gdal

package vector

import "fmt"

// loadGDB is a stub for builds without GDAL support.
func loadGDB(container, _ string) (*Collection, error) {
	return nil, fmt.Errorf("cannot open %s: geodatabase support requires a GDAL-enabled build (-tags gdal)", container)
}
