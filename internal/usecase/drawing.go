package usecase

import "SolCharts/internal/domain/models"

// DrawingBoard tracks the multi-click annotation interaction for one chart.
//
// Two states: idle, or awaiting the second point of a two-point tool with a
// live placeholder. The board never reads or writes candle data; callers
// supply chart-space coordinates converted by the hosting surface.
// Not goroutine-safe on its own: the owning session serializes access.
type DrawingBoard struct {
	tool       models.DrawingTool
	pending    *models.DrawingPrimitive
	primitives []models.DrawingPrimitive
}

func NewDrawingBoard() *DrawingBoard {
	return &DrawingBoard{}
}

// SelectTool switches the active tool. Switching while a two-point
// placeholder is in progress discards it.
func (b *DrawingBoard) SelectTool(tool models.DrawingTool) {
	b.pending = nil
	b.tool = tool
}

// Tool returns the active tool.
func (b *DrawingBoard) Tool() models.DrawingTool { return b.tool }

// Awaiting reports whether a two-point placeholder is in progress.
func (b *DrawingBoard) Awaiting() bool { return b.pending != nil }

// Click handles a chart click at pt. One-point tools commit immediately;
// two-point tools create a zero-length placeholder on the first click and
// commit on the second.
func (b *DrawingBoard) Click(pt models.ChartPoint) {
	if b.tool == models.ToolNone {
		return
	}

	if !b.tool.TwoPoint() {
		b.primitives = append(b.primitives, models.DrawingPrimitive{Tool: b.tool, P1: pt, P2: pt})
		return
	}

	if b.pending == nil {
		b.pending = &models.DrawingPrimitive{Tool: b.tool, P1: pt, P2: pt}
		return
	}

	b.pending.P2 = pt
	b.primitives = append(b.primitives, *b.pending)
	b.pending = nil
}

// Pointer updates the placeholder's second point while awaiting the second
// click, driving the live preview. No-op when idle.
func (b *DrawingBoard) Pointer(pt models.ChartPoint) {
	if b.pending == nil {
		return
	}
	b.pending.P2 = pt
}

// Cancel discards an in-progress placeholder and returns to idle.
func (b *DrawingBoard) Cancel() {
	b.pending = nil
}

// ClearAll destroys every primitive and any in-progress placeholder.
func (b *DrawingBoard) ClearAll() {
	b.pending = nil
	b.primitives = nil
}

// Primitives returns the committed primitives plus the live placeholder, in
// creation order. The placeholder comes last so the surface renders the
// preview on top.
func (b *DrawingBoard) Primitives() []models.DrawingPrimitive {
	out := make([]models.DrawingPrimitive, len(b.primitives), len(b.primitives)+1)
	copy(out, b.primitives)
	if b.pending != nil {
		out = append(out, *b.pending)
	}
	return out
}

// Committed returns only the finalized primitives.
func (b *DrawingBoard) Committed() []models.DrawingPrimitive {
	out := make([]models.DrawingPrimitive, len(b.primitives))
	copy(out, b.primitives)
	return out
}
