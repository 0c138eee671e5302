// Copyright 2024 The Vesper Authors. All rights reserved.

package config

import "testing"

func TestDefaultConfigAppliedAtInit(t *testing.T) {
	want := DefaultConfig()
	have := Current()
	if have != want {
		t.Fatalf("Current() at init\nhave %+v\nwant %+v", have, want)
	}
}

func TestConfigureReplacesCurrent(t *testing.T) {
	defer Configure(&[]Config{DefaultConfig()}[0])

	cfg := DefaultConfig()
	cfg.MaxGeometry = 1
	Configure(&cfg)
	if Current().MaxGeometry != 1 {
		t.Fatalf("Current().MaxGeometry\nhave %d\nwant 1", Current().MaxGeometry)
	}
}
