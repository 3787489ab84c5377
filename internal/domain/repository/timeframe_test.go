package repository

import "testing"

func TestBucketMsTable(t *testing.T) {
	cases := map[Timeframe]int64{
		TF1m:  60_000,
		TF5m:  300_000,
		TF15m: 900_000,
		TF1h:  3_600_000,
		TF4h:  14_400_000,
		TF1d:  86_400_000,
	}
	for tf, want := range cases {
		if got := BucketMs(tf); got != want {
			t.Fatalf("%s: expected %d, got %d", tf, want, got)
		}
	}
}

func TestNormalizeTimeframe(t *testing.T) {
	if got := NormalizeTimeframe("5m"); got != TF5m {
		t.Fatalf("expected 5m, got %s", got)
	}
	if got := NormalizeTimeframe(""); got != DefaultTimeframe() {
		t.Fatalf("empty symbol must fall back to default, got %s", got)
	}
	if got := NormalizeTimeframe("7m"); got != DefaultTimeframe() {
		t.Fatalf("unknown symbol must fall back to default, got %s", got)
	}
}

func TestTimeframesAscending(t *testing.T) {
	tfs := Timeframes()
	if len(tfs) != 6 {
		t.Fatalf("expected 6 timeframes, got %d", len(tfs))
	}
	for i := 1; i < len(tfs); i++ {
		if BucketMs(tfs[i]) <= BucketMs(tfs[i-1]) {
			t.Fatalf("timeframes must be listed in ascending bucket order")
		}
	}
}
