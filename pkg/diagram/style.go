package diagram

// Stroke and fill parameters shared by every output format.
const (
	// BoxAlpha is the opacity of box fills and borders.
	BoxAlpha = 0.3
	// BoxLineWidth is the box border width in points.
	BoxLineWidth = 1.5
	// RoundPad grows rounded boxes on every side and is also their corner
	// radius, in logical units.
	RoundPad = 0.1

	// ConnectorAlpha is the opacity of connector lines.
	ConnectorAlpha = 0.3
	// ConnectorWidth is the connector line width in points.
	ConnectorWidth = 1.0
	// DashOn and DashOff are the dash pattern, in multiples of the line width.
	DashOn  = 3.7
	DashOff = 1.6
)
