package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNew_Normalizes(t *testing.T) {
	if got, want := New(2025, 2, 30), New(2025, 3, 2); got != want {
		t.Errorf("New(2025, 2, 30) = %v, want %v", got, want)
	}
	if got, want := New(2025, 12, 31).Add(1), New(2026, 1, 1); got != want {
		t.Errorf("Add(1) = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-07-01", want: New(2025, 7, 1)},
		{in: "2025-7-1", want: New(2025, 7, 1)},
		{in: "01/07/2025", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestOf_UsesUTCDay(t *testing.T) {
	paris := time.FixedZone("CEST", 2*60*60)
	// 01:30 in Paris is still the previous day in UTC.
	instant := time.Date(2025, 8, 2, 1, 30, 0, 0, paris)
	if got, want := Of(instant), New(2025, 8, 1); got != want {
		t.Errorf("Of(%v) = %v, want %v", instant, got, want)
	}
}

func TestSub(t *testing.T) {
	if got := New(2025, 3, 1).Sub(New(2025, 2, 1)); got != 28 {
		t.Errorf("Sub() = %d, want 28", got)
	}
	if got := New(2025, 2, 1).Sub(New(2025, 2, 1)); got != 0 {
		t.Errorf("Sub() = %d, want 0", got)
	}
}
