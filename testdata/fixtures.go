package testdata

import (
	"embed"
	"fmt"
)

//go:embed frames/*
var framesFS embed.FS

// LoadFrame returns a recorded tracking service message by name.
func LoadFrame(name string) ([]byte, error) {
	data, err := framesFS.ReadFile("frames/" + name)
	if err != nil {
		return nil, fmt.Errorf("load frame %s: %w", name, err)
	}
	return data, nil
}
