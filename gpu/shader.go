// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/stage.wgsl
var stageShaderSource string

// Entry points of the stage shader.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// ShaderSource returns the WGSL source of the stage.
func ShaderSource() string {
	return stageShaderSource
}

// CompileSPIRV compiles the stage shader to SPIR-V words.
// Backends that take SPIR-V instead of WGSL use this.
func CompileSPIRV() ([]uint32, error) {
	if stageShaderSource == "" {
		return nil, errors.New("gpu: stage shader source is empty")
	}

	spirvBytes, err := naga.Compile(stageShaderSource)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile stage shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("gpu: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	if len(words) == 0 || words[0] != spirvMagic {
		return nil, errors.New("gpu: compiled shader is not SPIR-V")
	}
	return words, nil
}
