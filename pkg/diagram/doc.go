// Package diagram defines the box-and-arrow chart model rendered by dirchart.
//
// # Overview
//
// A [Diagram] is a flat list of drawing instructions on a fixed logical canvas:
//
//   - [Box]: a filled, bordered rectangle with a multi-line label
//   - [Text]: a free-standing text annotation
//   - [Connector]: a decorative dashed polyline between box anchor points
//
// Boxes reference a fixed [Diagram.Palette] by category name (or carry a
// literal #RRGGBB color). Nothing is computed from the content: every
// coordinate is a literal tuned for the figure.
//
// # Layouts
//
// Diagrams are stored as TOML. The directory structure chart of the AI
// Governance Navigator code base is embedded and returned by [Default]:
//
//	d, err := diagram.Default()
//	// or
//	d, err := diagram.Load("layout.toml")
//
// A [Watcher] reloads a layout file each time it is saved.
//
// # Coordinates
//
// The canvas uses logical units with the origin at the bottom-left corner and
// y growing upward. A [Viewport] maps logical units to output pixels for a
// given resolution.
package diagram
