package shoplist

import "testing"

func TestActionEncodeDecode(t *testing.T) {
	actions := []Action{
		{Kind: ActionDeactivate, View: ViewActive, Slot: 3},
		{Kind: ActionActivate, View: ViewFull, Slot: 12, Page: 10},
		{Kind: ActionPrevPage, View: ViewFull, Slot: -1, Page: -10},
		{Kind: ActionNextPage, View: ViewFull, Slot: -1, Page: 20},
	}
	for _, a := range actions {
		got, err := ParseAction(a.Unique(), a.Payload())
		if err != nil {
			t.Fatalf("parse %+v: %v", a, err)
		}
		if got != a {
			t.Fatalf("decoded %+v, want %+v", got, a)
		}
	}
}

func TestActionPayloadFormat(t *testing.T) {
	a := Action{Kind: ActionActivate, View: ViewFull, Slot: 4, Page: 10}
	if a.Unique() != "activate" {
		t.Fatalf("unique = %q", a.Unique())
	}
	if a.Payload() != "full_list|4|10" {
		t.Fatalf("payload = %q", a.Payload())
	}
}

func TestParseActionRejectsGarbage(t *testing.T) {
	cases := []struct {
		unique, payload string
	}{
		{"explode", "full_list|1|0"},
		{"activate", ""},
		{"activate", "full_list|1"},
		{"activate", "other_list|1|0"},
		{"activate", "full_list|x|0"},
		{"activate", "full_list|1|y"},
		{"activate", "full_list|1|0|extra"},
	}
	for _, tc := range cases {
		if _, err := ParseAction(tc.unique, tc.payload); err == nil {
			t.Fatalf("ParseAction(%q, %q) should fail", tc.unique, tc.payload)
		}
	}
}
