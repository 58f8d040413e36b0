// Package pkg holds the dirchart libraries.
//
// # Overview
//
// dirchart draws an annotated box diagram of a project's directory layout.
// The layout itself is data: a TOML document of boxes, text annotations and
// connectors, with the AIGovNav layout embedded as the default.
//
//  1. [diagram] - Layout model, TOML decoding, validation, coordinate mapping
//  2. [fonts] - Embedded Go fonts and system font lookup
//  3. [render] - Drawing surface, output formats and node-link view
//  4. [pipeline] - Validate, render, cache and write artifacts
//  5. [cache] - File, Redis and null artifact caches
//  6. [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Data Flow
//
//	aigovnav.toml (embedded) or --layout file
//	         ↓
//	    [diagram] package (decode + validate)
//	         ↓
//	    [render/canvas] / [render/sink] / [render/nodelink]
//	         ↓
//	    [pipeline] package (cache + atomic write)
//	         ↓
//	    Reference/directory_structure.png
//
// # Quick Start
//
//	d, err := diagram.Default()
//	if err != nil {
//	    return err
//	}
//	data, err := sink.RenderPNG(d)
//	if err != nil {
//	    return err
//	}
//	return pipeline.WriteArtifact(d.Output.Path, data)
package pkg
