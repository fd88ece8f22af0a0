package date

import (
	"encoding/json"
	"testing"
)

func TestCompare(t *testing.T) {
	testCases := []struct {
		a, b Date
		want int
	}{
		{New(2025, 7, 1), New(2025, 7, 1), 0},
		{New(2025, 6, 30), New(2025, 7, 1), -1},
		{New(2026, 1, 1), New(2025, 12, 31), 1},
		{Date{}, New(2025, 1, 1), -1},
	}
	for _, tc := range testCases {
		if got := tc.a.Compare(tc.b); got != tc.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
	// Time gives one canonical instant per day.
	if New(2025, 7, 31).Time() != New(2025, 7, 31).Time() {
		t.Errorf("Time() of the same day differs")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2025-07-01", New(2025, 7, 1), false},
		{"2025-7-1", New(2025, 7, 1), false},
		{"2025/07/01", Date{}, true},
		{"", Date{}, true},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q) error = %v, want error: %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDaysSince(t *testing.T) {
	from := New(2025, 1, 1)
	testCases := []struct {
		on   Date
		want int
	}{
		{New(2025, 1, 1), 0},
		{New(2025, 1, 2), 1},
		{New(2025, 6, 30), 180},
		{New(2024, 12, 31), -1},
	}
	for _, tc := range testCases {
		if got := tc.on.DaysSince(from); got != tc.want {
			t.Errorf("%v.DaysSince(%v) = %d, want %d", tc.on, from, got, tc.want)
		}
	}
}

func TestNewNormalizes(t *testing.T) {
	if got, want := New(2025, 2, 30), New(2025, 3, 2); got != want {
		t.Errorf("New(2025, 2, 30) = %v, want %v", got, want)
	}
	if got, want := New(2025, 1, 31).Add(1), New(2025, 2, 1); got != want {
		t.Errorf("Add(1) = %v, want %v", got, want)
	}
}

func TestJSON(t *testing.T) {
	type holder struct {
		On Date `json:"on"`
	}
	var h holder
	if err := json.Unmarshal([]byte(`{"on":"2025-3-9"}`), &h); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if want := New(2025, 3, 9); h.On != want {
		t.Errorf("Unmarshal gives %v, want %v", h.On, want)
	}
	b, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if want := `{"on":"2025-03-09"}`; string(b) != want {
		t.Errorf("Marshal = %s, want %s", b, want)
	}
	var zero holder
	if err := json.Unmarshal([]byte(`{"on":""}`), &zero); err != nil || !zero.On.IsZero() {
		t.Errorf("empty date should decode to zero Date, got %v, %v", zero.On, err)
	}
}
