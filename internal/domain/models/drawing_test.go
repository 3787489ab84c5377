package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDrawingPrimitiveMarshalsBothEndpoints(t *testing.T) {
	d := DrawingPrimitive{
		Tool: ToolHorizontalLine,
		P1:   ChartPoint{Time: 0, Price: 1.5},
	}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// One-point tools leave P2 at its zero value; consumers still expect
	// the key so both endpoints decode to the same shape.
	if !strings.Contains(string(b), `"p2"`) {
		t.Fatalf("expected p2 in payload, got %s", b)
	}

	var back DrawingPrimitive
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("round trip changed the drawing: %+v vs %+v", back, d)
	}
}
