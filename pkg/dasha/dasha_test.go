package dasha

import (
	"math"
	"testing"
	"time"

	"github.com/skyasground/truenorth/pkg/zodiac"
)

var ref = time.Date(1984, time.June, 1, 12, 0, 0, 0, time.UTC)

// uniformZodiac is a 12-arc partition of equal 30-degree arcs, which makes
// every period an exact 10 years and each sub-period 1/12 of its parent.
func uniformZodiac(t *testing.T) *zodiac.Zodiac {
	t.Helper()
	names := []string{
		zodiac.Aries, zodiac.Taurus, zodiac.Gemini, zodiac.Cancer,
		zodiac.Leo, zodiac.Virgo, zodiac.Libra, zodiac.Scorpius,
		zodiac.Sagittarius, zodiac.Capricornus, zodiac.Aquarius, zodiac.Pisces,
	}
	bounds := make([]zodiac.Boundary, len(names))
	for i, n := range names {
		bounds[i] = zodiac.Boundary{Name: n, Start: float64(i) * 30}
	}
	z, err := zodiac.New(bounds)
	if err != nil {
		t.Fatalf("building uniform partition: %v", err)
	}
	return z
}

func durationDays(days float64) time.Duration {
	return time.Duration(days * 24 * float64(time.Hour))
}

func TestBuildChain(t *testing.T) {
	z := zodiac.Default()
	tl := Build(z, 250.0, ref) // Ophiuchus

	if len(tl.Periods) != 13 {
		t.Fatalf("period count: got %d, want 13", len(tl.Periods))
	}
	if got := tl.Periods[0].Arc.Name; got != zodiac.Ophiuchus {
		t.Errorf("first period arc: got %s, want %s", got, zodiac.Ophiuchus)
	}
	if got := tl.Periods[1].Arc.Name; got != zodiac.Sagittarius {
		t.Errorf("second period arc: got %s, want %s", got, zodiac.Sagittarius)
	}
	if got := tl.Periods[12].Arc.Name; got != zodiac.Scorpius {
		t.Errorf("last period arc: got %s, want %s", got, zodiac.Scorpius)
	}

	for i := 1; i < len(tl.Periods); i++ {
		if !tl.Periods[i].Start.Equal(tl.Periods[i-1].End) {
			t.Errorf("gap between period %d and %d: %v vs %v",
				i-1, i, tl.Periods[i-1].End, tl.Periods[i].Start)
		}
	}
	for i, p := range tl.Periods {
		if got := p.End.Sub(p.Start); got != p.Duration {
			t.Errorf("period %d duration field %v does not match span %v", i, p.Duration, got)
		}
	}
}

func TestCycleSpan(t *testing.T) {
	tl := Build(zodiac.Default(), 12.0, ref)

	total := tl.Periods[len(tl.Periods)-1].End.Sub(tl.Periods[0].Start)
	want := time.Duration(CycleYears * 365.25 * 24 * float64(time.Hour))
	if diff := total - want; diff < -time.Second || diff > time.Second {
		t.Errorf("cycle span: got %v, want %v (diff %v)", total, want, diff)
	}

	var sum time.Duration
	for _, p := range tl.Periods {
		sum += p.Duration
	}
	if diff := sum - want; diff < -time.Second || diff > time.Second {
		t.Errorf("duration sum: got %v, want %v (diff %v)", sum, want, diff)
	}
}

func TestFirstPeriodElapsed(t *testing.T) {
	z := zodiac.Default()
	tests := []struct {
		name    string
		moonLon float64
		arc     string
		days    float64 // reference minus first period start
	}{
		{"at arc start", 0.0, zodiac.Aries, 0},
		{"mid aries", 15.0, zodiac.Aries, 5 * 365.25},          // 15/29.1 of 9.7y
		{"mid ophiuchus", 256.2, zodiac.Ophiuchus, 1107.925},   // half of 6.0667y
		{"mid pisces wrap", 355.8, zodiac.Pisces, 511.35},      // half of 2.8y
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tl := Build(z, tc.moonLon, ref)
			if got := tl.Periods[0].Arc.Name; got != tc.arc {
				t.Fatalf("first arc: got %s, want %s", got, tc.arc)
			}
			elapsed := ref.Sub(tl.Periods[0].Start)
			want := durationDays(tc.days)
			if diff := elapsed - want; diff < -time.Minute || diff > time.Minute {
				t.Errorf("elapsed before reference: got %v, want %v", elapsed, want)
			}
		})
	}
}

func TestBuildNormalizesMoonLongitude(t *testing.T) {
	z := zodiac.Default()
	a := Build(z, 250.0, ref)
	b := Build(z, 250.0+720, ref)

	if b.MoonLongitude != 250.0 {
		t.Errorf("moon longitude: got %v, want 250", b.MoonLongitude)
	}
	if a.Periods[0].Arc != b.Periods[0].Arc || !a.Periods[0].Start.Equal(b.Periods[0].Start) {
		t.Errorf("normalized build differs: %+v vs %+v", a.Periods[0], b.Periods[0])
	}
}

func TestSubPeriods(t *testing.T) {
	tl := Build(zodiac.Default(), 100.0, ref) // Cancer
	p := tl.Periods[0]
	subs := tl.SubPeriods(p)

	if len(subs) != 13 {
		t.Fatalf("sub-period count: got %d, want 13", len(subs))
	}
	if subs[0].Arc.Name != zodiac.Cancer {
		t.Errorf("first sub arc: got %s, want %s", subs[0].Arc.Name, zodiac.Cancer)
	}
	if subs[1].Arc.Name != zodiac.Leo {
		t.Errorf("second sub arc: got %s, want %s", subs[1].Arc.Name, zodiac.Leo)
	}
	if !subs[0].Start.Equal(p.Start) {
		t.Errorf("first sub start %v does not match period start %v", subs[0].Start, p.Start)
	}
	if !subs[len(subs)-1].End.Equal(p.End) {
		t.Errorf("last sub end %v does not match period end %v", subs[len(subs)-1].End, p.End)
	}

	var sum time.Duration
	for i, s := range subs {
		if i > 0 && !s.Start.Equal(subs[i-1].End) {
			t.Errorf("gap between sub %d and %d", i-1, i)
		}
		sum += s.Duration
	}
	if sum != p.Duration {
		t.Errorf("sub duration sum %v does not tile period duration %v", sum, p.Duration)
	}

	// Each sub-period carries its arc's share of the parent period.
	want := time.Duration(27.9 / 360 * float64(p.Duration)) // Cancer's own share
	if diff := subs[0].Duration - want; diff < -time.Second || diff > time.Second {
		t.Errorf("first sub duration: got %v, want %v", subs[0].Duration, want)
	}
}

func TestAtRoundTrip(t *testing.T) {
	z := zodiac.Default()
	for _, lon := range []float64{0, 15, 29.1, 53.5, 100, 246.9, 247.1, 300, 351.6, 359.99} {
		tl := Build(z, lon, ref)
		pos, ok := tl.At(ref)
		if !ok {
			t.Errorf("moon %.2f: reference instant not inside its own cycle", lon)
			continue
		}
		want := z.Classify(lon).Arc.Name
		if pos.Period.Arc.Name != want {
			t.Errorf("moon %.2f: period at reference is %s, want %s", lon, pos.Period.Arc.Name, want)
		}
		if ref.Before(pos.SubPeriod.Start) || !ref.Before(pos.SubPeriod.End) {
			t.Errorf("moon %.2f: sub-period [%v, %v) does not contain reference",
				lon, pos.SubPeriod.Start, pos.SubPeriod.End)
		}
	}
}

func TestAtEdges(t *testing.T) {
	tl := Build(zodiac.Default(), 200.0, ref)
	first := tl.Periods[0]
	last := tl.Periods[len(tl.Periods)-1]

	if _, ok := tl.At(first.Start.Add(-time.Second)); ok {
		t.Error("instant before cycle start reported as inside")
	}
	if _, ok := tl.At(last.End); ok {
		t.Error("cycle end instant reported as inside (spans are half-open)")
	}

	pos, ok := tl.At(first.Start)
	if !ok || pos.Period.Arc != first.Arc {
		t.Errorf("cycle start: got %+v ok=%v, want first period", pos.Period.Arc, ok)
	}
	pos, ok = tl.At(last.End.Add(-time.Second))
	if !ok || pos.Period.Arc != last.Arc {
		t.Errorf("last second of cycle: got %+v ok=%v, want last period", pos.Period.Arc, ok)
	}

	// A shared edge belongs to the later span.
	p1 := tl.Periods[1]
	pos, ok = tl.At(p1.Start)
	if !ok || pos.Period.Arc != p1.Arc {
		t.Errorf("period seam: got %v ok=%v, want %v", pos.Period.Arc.Name, ok, p1.Arc.Name)
	}
	subs := tl.SubPeriods(p1)
	pos, ok = tl.At(subs[3].Start)
	if !ok || pos.SubPeriod.Arc != subs[3].Arc {
		t.Errorf("sub-period seam: got %v ok=%v, want %v", pos.SubPeriod.Arc.Name, ok, subs[3].Arc.Name)
	}
}

func TestUniformTwelve(t *testing.T) {
	z := uniformZodiac(t)
	tl := Build(z, 45.0, ref) // halfway through the second arc

	if len(tl.Periods) != 12 {
		t.Fatalf("period count: got %d, want 12", len(tl.Periods))
	}
	wantPeriod := durationDays(10 * 365.25)
	for i, p := range tl.Periods {
		if diff := p.Duration - wantPeriod; diff < -time.Second || diff > time.Second {
			t.Errorf("period %d duration: got %v, want %v", i, p.Duration, wantPeriod)
		}
	}

	elapsed := ref.Sub(tl.Periods[0].Start)
	if diff := elapsed - durationDays(5*365.25); diff < -time.Minute || diff > time.Minute {
		t.Errorf("elapsed: got %v, want 5 years", elapsed)
	}

	subs := tl.SubPeriods(tl.Periods[0])
	wantSub := wantPeriod / 12
	for i, s := range subs {
		if diff := s.Duration - wantSub; diff < -time.Second || diff > time.Second {
			t.Errorf("sub %d duration: got %v, want %v", i, s.Duration, wantSub)
		}
	}
}

func TestYears(t *testing.T) {
	tl := Build(zodiac.Default(), 0.0, ref)
	for _, p := range tl.Periods {
		want := p.Arc.Length / 360 * CycleYears
		if got := p.Years(); math.Abs(got-want) > 1e-6 {
			t.Errorf("%s years: got %.7f, want %.7f", p.Arc.Name, got, want)
		}
	}
	var sum float64
	for _, p := range tl.Periods {
		sum += p.Years()
	}
	if math.Abs(sum-CycleYears) > 1e-6 {
		t.Errorf("years sum: got %.7f, want %d", sum, CycleYears)
	}
}

func BenchmarkBuild(b *testing.B) {
	z := zodiac.Default()
	for i := 0; i < b.N; i++ {
		Build(z, 250.0, ref)
	}
}

func BenchmarkAt(b *testing.B) {
	tl := Build(zodiac.Default(), 250.0, ref)
	at := ref.AddDate(40, 0, 0)
	for i := 0; i < b.N; i++ {
		tl.At(at)
	}
}
