package hours

import (
	"errors"
	"testing"
	"time"

	"github.com/cafehopper/cafe-hopper/server/internal/model"
	"github.com/cafehopper/cafe-hopper/server/internal/places"
)

func TestTimeToMinutes(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"0000", 0, false},
		{"0200", 120, false},
		{"0930", 570, false},
		{"2359", 1439, false},
		{"12345", 0, true},
		{"2400", 0, true},
		{"2500", 0, true},
		{"1260", 0, true},
		{"930", 0, true},
		{"09:30", 0, true},
		{"abcd", 0, true},
	}
	for _, c := range cases {
		got, err := TimeToMinutes(c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("TimeToMinutes(%q): expected error", c.in)
			}
			if !errors.Is(err, model.ErrValidation) {
				t.Fatalf("TimeToMinutes(%q): error should wrap ErrValidation, got %v", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("TimeToMinutes(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("TimeToMinutes(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func period(day int, open, close string) places.Period {
	return places.Period{
		Open:  places.TimePoint{Day: day, Time: open},
		Close: &places.TimePoint{Day: day, Time: close},
	}
}

func TestIsOpenAt_InclusiveBounds(t *testing.T) {
	periods := []places.Period{period(1, "0900", "1700")}

	if !IsOpenAt(periods, 1, 9*60) {
		t.Fatal("open bound should be inclusive")
	}
	if !IsOpenAt(periods, 1, 17*60) {
		t.Fatal("close bound should be inclusive")
	}
	if IsOpenAt(periods, 1, 17*60+1) {
		t.Fatal("one minute past close should not match")
	}
	if IsOpenAt(periods, 2, 10*60) {
		t.Fatal("wrong day should not match")
	}
}

func TestIsOpenAt_OvernightWraparound(t *testing.T) {
	// Opens Sunday 22:00, closes 02:00.
	periods := []places.Period{period(0, "2200", "0200")}

	if !IsOpenAt(periods, 0, 23*60) {
		t.Fatal("23:00 falls inside the overnight window")
	}
	if !IsOpenAt(periods, 0, 60) {
		t.Fatal("01:00 falls inside the overnight window")
	}
	if IsOpenAt(periods, 0, 10*60) {
		t.Fatal("10:00 falls outside the overnight window")
	}
}

func TestIsOpenAt_ZeroTimesNeverMatch(t *testing.T) {
	// Absent or midnight open/close edges never match.
	cases := [][]places.Period{
		{period(3, "0000", "1700")},
		{period(3, "0900", "0000")},
		{period(3, "", "1700")},
		{period(3, "0900", "garbage")},
		{{Open: places.TimePoint{Day: 3, Time: "0900"}, Close: nil}},
	}
	for i, periods := range cases {
		if IsOpenAt(periods, 3, 10*60) {
			t.Fatalf("case %d: period with zero edge should never match", i)
		}
	}
}

func TestOpenOnDay(t *testing.T) {
	periods := []places.Period{period(1, "0900", "1700"), period(3, "0900", "1700")}
	if !OpenOnDay(periods, 1) || !OpenOnDay(periods, 3) {
		t.Fatal("days with a period should match")
	}
	if OpenOnDay(periods, 2) {
		t.Fatal("day without a period should not match")
	}
}

func detailWithPeriods(id string, periods ...places.Period) places.Detail {
	return places.Detail{
		PlaceID:      id,
		Name:         id,
		OpeningHours: &places.OpeningHours{Periods: periods},
	}
}

func TestFilterByTime_NoFilterPassesThrough(t *testing.T) {
	in := []places.Detail{detailWithPeriods("a"), {PlaceID: "b", Name: "b"}}
	out, err := FilterByTime(in, nil, "")
	if err != nil {
		t.Fatalf("FilterByTime: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected passthrough, got %d records", len(out))
	}
}

func TestFilterByTime_DayOnly(t *testing.T) {
	monday := 1
	in := []places.Detail{
		detailWithPeriods("mon", period(1, "0900", "1700")),
		detailWithPeriods("wed", period(3, "0900", "1700")),
		{PlaceID: "nohours", Name: "nohours"},
	}
	out, err := FilterByTime(in, &monday, "")
	if err != nil {
		t.Fatalf("FilterByTime: %v", err)
	}
	if len(out) != 1 || out[0].PlaceID != "mon" {
		t.Fatalf("expected only the Monday record, got %+v", out)
	}
}

func TestFilterByTime_DayAndTime(t *testing.T) {
	monday := 1
	in := []places.Detail{
		detailWithPeriods("morning", period(1, "0700", "1100")),
		detailWithPeriods("evening", period(1, "1800", "2200")),
	}
	out, err := FilterByTime(in, &monday, "0930")
	if err != nil {
		t.Fatalf("FilterByTime: %v", err)
	}
	if len(out) != 1 || out[0].PlaceID != "morning" {
		t.Fatalf("expected only the morning record, got %+v", out)
	}
}

func TestFilterByTime_TimeOnlyUsesCurrentWeekday(t *testing.T) {
	// Pin "now" to a Tuesday.
	orig := nowFunc
	nowFunc = func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = orig }()

	in := []places.Detail{
		detailWithPeriods("tue", period(2, "0900", "1700")),
		detailWithPeriods("fri", period(5, "0900", "1700")),
	}
	out, err := FilterByTime(in, nil, "1000")
	if err != nil {
		t.Fatalf("FilterByTime: %v", err)
	}
	if len(out) != 1 || out[0].PlaceID != "tue" {
		t.Fatalf("expected only the Tuesday record, got %+v", out)
	}
}

func TestFilterByTime_MalformedTimeFailsRequest(t *testing.T) {
	in := []places.Detail{detailWithPeriods("a", period(1, "0900", "1700"))}
	if _, err := FilterByTime(in, nil, "25h"); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
