package shaders

import (
	_ "embed"
)

//go:embed lit.wgsl
var LitWGSL string

//go:embed blend.wgsl
var BlendWGSL string

//go:embed sky.wgsl
var SkyWGSL string

//go:embed text.wgsl
var TextWGSL string
