package screening

import (
	"math"
	"testing"
	"time"

	"CoinScreen/internal/domain/models"
)

func day(n int) time.Time {
	return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func dailySeries(prices ...float64) []models.PricePoint {
	out := make([]models.PricePoint, len(prices))
	for i, p := range prices {
		out[i] = models.PricePoint{Date: day(i), Price: p}
	}
	return out
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCumulativeReturnBackward(t *testing.T) {
	series := dailySeries(100, 110)
	spec := models.TimeframeSpec{Direction: models.DirectionBackward, Anchor: day(1)}

	ret, end := CumulativeReturn(series, spec, 1)
	if !ret.Defined {
		t.Fatalf("expected defined return")
	}
	if !approx(ret.Value, 10.0) {
		t.Fatalf("expected 10.0, got %v", ret.Value)
	}
	if !end.Equal(day(1)) {
		t.Fatalf("expected end date %v, got %v", day(1), end)
	}

	down, _ := CumulativeReturn(dailySeries(100, 95), spec, 1)
	if !approx(down.Value, -5.0) {
		t.Fatalf("expected -5.0, got %v", down.Value)
	}
}

func TestCumulativeReturnBackwardZeroAnchorUsesLatest(t *testing.T) {
	series := dailySeries(50, 80, 100)
	spec := models.TimeframeSpec{Direction: models.DirectionBackward}
	ret, _ := CumulativeReturn(series, spec, 2)
	if !ret.Defined || !approx(ret.Value, 100.0) {
		t.Fatalf("expected 100.0, got %+v", ret)
	}
}

func TestCumulativeReturnForward(t *testing.T) {
	series := dailySeries(100, 120, 90, 180)
	spec := models.TimeframeSpec{Direction: models.DirectionForward, Anchor: day(0)}

	ret, end := CumulativeReturn(series, spec, 3)
	if !ret.Defined || !approx(ret.Value, 80.0) {
		t.Fatalf("expected 80.0, got %+v", ret)
	}
	if !end.Equal(day(3)) {
		t.Fatalf("expected end %v, got %v", day(3), end)
	}
}

func TestCumulativeReturnForwardAnchorNearest(t *testing.T) {
	// Anchor between points resolves to the nearest earlier date.
	series := []models.PricePoint{
		{Date: day(0), Price: 100},
		{Date: day(4), Price: 150},
	}
	spec := models.TimeframeSpec{Direction: models.DirectionForward, Anchor: day(2)}
	ret, _ := CumulativeReturn(series, spec, 1)
	if !ret.Defined || !approx(ret.Value, 50.0) {
		t.Fatalf("expected 50.0, got %+v", ret)
	}
}

func TestCumulativeReturnUndefined(t *testing.T) {
	spec := models.TimeframeSpec{Direction: models.DirectionBackward}

	if ret, _ := CumulativeReturn(dailySeries(100, 110), spec, 5); ret.Defined {
		t.Fatalf("horizon longer than series must be undefined")
	}
	if ret, _ := CumulativeReturn(nil, spec, 1); ret.Defined {
		t.Fatalf("empty series must be undefined")
	}
	if ret, _ := CumulativeReturn(dailySeries(0, 110), spec, 1); ret.Defined {
		t.Fatalf("zero start price must be undefined")
	}

	fwd := models.TimeframeSpec{Direction: models.DirectionForward, Anchor: day(1)}
	if ret, _ := CumulativeReturn(dailySeries(100, 110), fwd, 2); ret.Defined {
		t.Fatalf("forward window past series end must be undefined")
	}
}

func TestCumulativeReturnAnchorBeforeSeries(t *testing.T) {
	spec := models.TimeframeSpec{Direction: models.DirectionForward, Anchor: day(-5)}
	if ret, _ := CumulativeReturn(dailySeries(100, 110, 120), spec, 1); ret.Defined {
		t.Fatalf("anchor before series start must be undefined")
	}
}
