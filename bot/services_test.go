package bot

import "testing"

func TestParseService(t *testing.T) {
	cases := []struct {
		data string
		want ServiceCategory
		ok   bool
	}{
		{"electrician", ServiceElectrician, true},
		{"plumber", ServicePlumber, true},
		{"construction", ServiceConstruction, true},
		{"locksmith", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseService(tc.data)
		if ok != tc.ok {
			t.Errorf("ParseService(%q) ok = %v, want %v", tc.data, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("ParseService(%q) = %q, want %q", tc.data, got, tc.want)
		}
	}
}

func TestServiceLabelFallback(t *testing.T) {
	if got := ServiceCategory("unknown").Label(); got != "the requested service" {
		t.Fatalf("fallback label = %q", got)
	}
}

func TestServicesKeyboardLayout(t *testing.T) {
	markup := ServicesKeyboard()

	if len(markup.InlineKeyboard) != 3 {
		t.Fatalf("rows = %d, want 3", len(markup.InlineKeyboard))
	}
	for i, cat := range serviceOrder {
		row := markup.InlineKeyboard[i]
		if len(row) != 1 {
			t.Fatalf("row %d buttons = %d, want 1", i, len(row))
		}
		btn := row[0]
		if btn.Text != cat.Label() {
			t.Errorf("row %d text = %q, want %q", i, btn.Text, cat.Label())
		}
		if btn.Unique != serviceCallbackKey {
			t.Errorf("row %d unique = %q, want %q", i, btn.Unique, serviceCallbackKey)
		}
		if btn.Data != string(cat) {
			t.Errorf("row %d data = %q, want %q", i, btn.Data, cat)
		}
	}
}

func TestLocationKeyboardButtons(t *testing.T) {
	markup := LocationKeyboard()

	if !markup.OneTimeKeyboard || !markup.ResizeKeyboard {
		t.Fatal("location keyboard should be one-time and resized")
	}
	if len(markup.ReplyKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.ReplyKeyboard))
	}
	share := markup.ReplyKeyboard[0][0]
	if share.Text != shareLocationLabel || !share.Location {
		t.Fatalf("first button should request the location: %+v", share)
	}
	cancel := markup.ReplyKeyboard[1][0]
	if cancel.Text != cancelLabel || cancel.Location {
		t.Fatalf("second button should be the plain cancel label: %+v", cancel)
	}
}
