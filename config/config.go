// Copyright 2024 The Vesper Authors. All rights reserved.

// Package config holds process-wide engine configuration: cache and
// frame-resource budgets for a render engine and its caches (spec.md §6
// ambient stack). No package in this module reads Current(); the caches
// and the reference backend do not enforce these values. Grounded on
// gviegas-neo3/engine.Config/DefaultConfig/Configure, generalized from
// the teacher's fixed Mesh/Material/Light/Skin budgets to the
// cache-keyed budgets resdata/cache actually use.
package config

const (
	// MinBufferGrowth is the byte granularity InitialVertexBufferBytes
	// is a multiple of. dynarray grows by its own CapacityIncrement
	// element count, not by this value.
	MinBufferGrowth = 16384

	dflMaxGeometry        = 2048
	dflMaxTexture         = 1024
	dflMaxMaterial        = 512
	dflMaxSkin            = 1024
	dflInitialVertexBytes = MinBufferGrowth * 256
	dflFramesInFlight     = 2
)

// Config configures the caches and render engine a process creates.
type Config struct {
	// FramesInFlight is the number of command buffers a backend keeps
	// for overlap between CPU recording and GPU execution.
	//
	// Default is 2.
	FramesInFlight int

	// MaxGeometry is the budget of distinct resident geometries. The
	// geometry cache does not limit its size by it.
	//
	// Default is 2048.
	MaxGeometry int

	// MaxTexture is the budget of distinct resident textures. The
	// texture cache does not limit its size by it.
	//
	// Default is 1024.
	MaxTexture int

	// MaxMaterial is the budget of distinct resident materials. The
	// material cache does not limit its size by it.
	//
	// Default is 512.
	MaxMaterial int

	// MaxSkin is the budget of distinct resident skins. The skin cache
	// does not limit its size by it.
	//
	// Default is 1024.
	MaxSkin int

	// InitialVertexBufferBytes is the configured initial size of a
	// backend vertex-buffer pool. The reference backend's pools start
	// empty and do not read it.
	//
	// It must be a multiple of MinBufferGrowth.
	//
	// Default is 4194304 bytes (4MiB).
	InitialVertexBufferBytes int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		FramesInFlight:           dflFramesInFlight,
		MaxGeometry:              dflMaxGeometry,
		MaxTexture:               dflMaxTexture,
		MaxMaterial:              dflMaxMaterial,
		MaxSkin:                  dflMaxSkin,
		InitialVertexBufferBytes: dflInitialVertexBytes,
	}
}

var current Config

// Configure replaces the process-wide configuration with cfg.
func Configure(cfg *Config) { current = *cfg }

// Current returns the process-wide configuration most recently set by
// Configure.
func Current() Config { return current }

func init() {
	cfg := DefaultConfig()
	Configure(&cfg)
}
