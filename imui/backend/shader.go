package backend

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/hlsl"
)

//go:embed shaders/ui.wgsl
var uiShaderWGSL string

// Shader model targets passed to the device's HLSL compiler.
const (
	vertexTarget = "vs_5_1"
	pixelTarget  = "ps_5_1"
)

// uiProgram is the UI shader translated to HLSL.
type uiProgram struct {
	HLSL     string
	VSEntry  string
	PSEntry  string
	Bindings map[string]string
}

// uiShader translates the embedded WGSL once per process. The result only
// depends on the source.
var uiShader = sync.OnceValues(func() (*uiProgram, error) {
	return compileProgram(uiShaderWGSL)
})

// compileProgram translates a WGSL module with a vs_main and fs_main entry
// point to HLSL. Bindings of group 0 map to b0 (projection), t0 (atlas) and
// s0 (sampler), matching the root signature the renderer creates. Samplers
// are reached through an index table at t1.
func compileProgram(wgsl string) (*uiProgram, error) {
	ast, err := naga.Parse(wgsl)
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrShaderCompile, err)
	}
	module, err := naga.LowerWithSource(ast, wgsl)
	if err != nil {
		return nil, fmt.Errorf("%w: lower: %v", ErrShaderCompile, err)
	}

	opts := hlsl.DefaultOptions()
	opts.ShaderModel = hlsl.ShaderModel5_1
	opts.FakeMissingBindings = false
	opts.BindingMap[hlsl.ResourceBinding{Group: 0, Binding: 0}] = hlsl.BindTarget{Space: 0, Register: 0}
	opts.BindingMap[hlsl.ResourceBinding{Group: 0, Binding: 1}] = hlsl.BindTarget{Space: 0, Register: 0}
	opts.BindingMap[hlsl.ResourceBinding{Group: 0, Binding: 2}] = hlsl.BindTarget{Space: 0, Register: 0}
	opts.SamplerBufferBindingMap = map[uint32]hlsl.BindTarget{0: {Space: 0, Register: 1}}

	src, info, err := hlsl.Compile(module, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: hlsl: %v", ErrShaderCompile, err)
	}

	p := &uiProgram{
		HLSL:     src,
		VSEntry:  "vs_main",
		PSEntry:  "fs_main",
		Bindings: info.RegisterBindings,
	}
	if name, ok := info.EntryPointNames[p.VSEntry]; ok && name != "" {
		p.VSEntry = name
	}
	if name, ok := info.EntryPointNames[p.PSEntry]; ok && name != "" {
		p.PSEntry = name
	}
	return p, nil
}
