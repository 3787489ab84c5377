package models

// DrawingTool identifies an annotation tool on the chart toolbar.
type DrawingTool string

const (
	ToolNone           DrawingTool = ""
	ToolVerticalLine   DrawingTool = "vline"
	ToolHorizontalLine DrawingTool = "hline"
	ToolTrendLine      DrawingTool = "trend"
	ToolRay            DrawingTool = "ray"
	ToolFibRetrace     DrawingTool = "fib"
)

// TwoPoint reports whether the tool needs a second click to commit.
func (t DrawingTool) TwoPoint() bool {
	switch t {
	case ToolTrendLine, ToolRay, ToolFibRetrace:
		return true
	}
	return false
}

// ChartPoint is a chart-space coordinate (time in unix seconds, price).
type ChartPoint struct {
	Time  int64   `json:"time"`
	Price float64 `json:"price"`
}

// DrawingPrimitive is a committed or in-progress annotation.
// Vertical lines use only P1.Time, horizontal lines only P1.Price;
// two-point tools use both endpoints.
type DrawingPrimitive struct {
	Tool DrawingTool `json:"tool"`
	P1   ChartPoint  `json:"p1"`
	P2   ChartPoint  `json:"p2"`
}
