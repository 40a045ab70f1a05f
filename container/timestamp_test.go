package container

import (
	"testing"
	"time"

	"github.com/auklab/raf/errors"
)

func TestCoerceTimestamp(t *testing.T) {
	cases := map[string]struct {
		in      interface{}
		want    Timestamp
		wantErr *errors.Error
	}{
		"float seconds with fraction": {
			in:   1302120001.25,
			want: Timestamp{1302120001, 250000},
		},
		"float seconds without fraction": {
			in:   1302120001.0,
			want: Timestamp{1302120001, 0},
		},
		"integer seconds": {
			in:   int64(1302120001),
			want: Timestamp{1302120001, 0},
		},
		"already a pair": {
			in:   []int64{1302120001, 42},
			want: Timestamp{1302120001, 42},
		},
		"already canonical": {
			in:   Timestamp{7, 8},
			want: Timestamp{7, 8},
		},
		"pair of wrong length": {
			in:      []int64{1, 2, 3},
			wantErr: errors.ErrType,
		},
		"string": {
			in:      "yesterday",
			wantErr: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ts, err := CoerceTimestamp(tc.in)
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("want %v, got %+v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("cannot coerce: %+v", err)
			}
			if ts != tc.want {
				t.Fatalf("want %v, got %v", tc.want, ts)
			}
		})
	}
}

func TestTimestampTimeRoundTrip(t *testing.T) {
	moment := time.Date(2011, 4, 6, 12, 30, 15, 250000*1e3, time.UTC)
	ts := AsTimestamp(moment)
	if ts.Micros() != 250000 {
		t.Fatalf("micros: %d", ts.Micros())
	}
	if !ts.Time().Equal(moment) {
		t.Fatalf("want %v, got %v", moment, ts.Time())
	}
}
