package pickle

import (
	"reflect"
	"testing"

	"github.com/auklab/raf/errors"
)

func TestLoads(t *testing.T) {
	// Payloads below are what cPickle.dumps(value, 0) produces.
	cases := map[string]struct {
		raw  string
		want interface{}
	}{
		"int": {
			raw:  "I42\n.",
			want: int64(42),
		},
		"negative int": {
			raw:  "I-7\n.",
			want: int64(-7),
		},
		"long": {
			raw:  "L20000L\n.",
			want: int64(20000),
		},
		"float": {
			raw:  "F20000.5\n.",
			want: 20000.5,
		},
		"true": {
			raw:  "I01\n.",
			want: true,
		},
		"false": {
			raw:  "I00\n.",
			want: false,
		},
		"none": {
			raw:  "N.",
			want: nil,
		},
		"string": {
			raw:  "S'mic'\np0\n.",
			want: "mic",
		},
		"string with escapes": {
			raw:  "S'a\\'b\\n\\x41'\np0\n.",
			want: "a'b\nA",
		},
		"empty string": {
			raw:  "S''\np0\n.",
			want: "",
		},
		"unicode": {
			raw:  "Vstimulus \\u00b5V\np0\n.",
			want: "stimulus \u00b5V",
		},
		"list of ints": {
			raw:  "(lp0\nI1\naI2\naI3\na.",
			want: []interface{}{int64(1), int64(2), int64(3)},
		},
		"empty list": {
			raw:  "(lp0\n.",
			want: []interface{}{},
		},
		"tuple": {
			raw:  "(I1302120001\nI250000\ntp0\n.",
			want: []interface{}{int64(1302120001), int64(250000)},
		},
		"nested list": {
			raw:  "(lp0\n(lp1\nI1\naaS'x'\np2\na.",
			want: []interface{}{[]interface{}{int64(1)}, "x"},
		},
		"dict": {
			raw: "(dp0\nS'rate'\np1\nF20000.0\nsS'units'\np2\nS'mV'\np3\ns.",
			want: map[interface{}]interface{}{
				"rate":  20000.0,
				"units": "mV",
			},
		},
		"memo reuse": {
			raw:  "(lp0\nS'a'\np1\nag1\na.",
			want: []interface{}{"a", "a"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := Loads([]byte(tc.raw))
			if err != nil {
				t.Fatalf("cannot decode: %+v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("want %#v, got %#v", tc.want, got)
			}
		})
	}
}

func TestLoadsRejectsGarbage(t *testing.T) {
	cases := map[string]string{
		"empty":              "",
		"no stop":            "I42\n",
		"unknown opcode":     "Z.",
		"unterminated int":   "I42",
		"append to non-list": "I1\nI2\na.",
		"missing memo":       "g9\n.",
		"plain prose":        "not pickled at all.",
	}

	for testName, raw := range cases {
		t.Run(testName, func(t *testing.T) {
			if _, err := Loads([]byte(raw)); !errors.ErrInput.Is(err) {
				t.Fatalf("want ErrInput, got %+v", err)
			}
		})
	}
}

func TestLooks(t *testing.T) {
	if !Looks("I42\n.") {
		t.Error("pickled payload not recognized")
	}
	if Looks("") {
		t.Error("empty string must not look pickled")
	}
	if Looks("plain value") {
		t.Error("plain value must not look pickled")
	}
}
