// Copyright 2024 The Vesper Authors. All rights reserved.

// Package reference implements backend.Backend against the driver
// package's GPU abstraction (spec.md §4.6's reference backend),
// grounded on gviegas-neo3/engine/internal/ctxt's driver-selection
// idiom and engine/storage.go's host-visible-buffer resource
// management. Unlike the teacher's global ctxt package vars, GPU
// selection here is held on the Reference value itself, since a
// process may want more than one (e.g. one per test).
package reference

import (
	"errors"
	"strings"

	"github.com/vesper3d/vesper/driver"
)

var errNoDriver = errors.New("reference: no matching driver found")

// openDriver opens the first registered driver.Driver whose name
// contains name (case-sensitive); an empty name matches any driver.
func openDriver(name string) (driver.Driver, driver.GPU, error) {
	for _, d := range driver.Drivers() {
		if !strings.Contains(d.Name(), name) {
			continue
		}
		gpu, err := d.Open()
		if err != nil {
			continue
		}
		return d, gpu, nil
	}
	return nil, nil, errNoDriver
}
