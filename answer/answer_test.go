package answer

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantOK    bool
		wantValue float64
		wantInt   bool
	}{
		{
			name:      "anchor phrase with dollar sign",
			text:      "The answer is $42",
			wantOK:    true,
			wantValue: 42,
			wantInt:   true,
		},
		{
			name:      "anchor phrase plain",
			text:      "Let me work through it. The answer is 17 because of the carry.",
			wantOK:    true,
			wantValue: 17,
			wantInt:   true,
		},
		{
			name:      "anchor beats later numbers",
			text:      "The answer is 8, not 10 or 12.",
			wantOK:    true,
			wantValue: 8,
			wantInt:   true,
		},
		{
			name:      "no anchor takes last number",
			text:      "He has 3 apples and then 10 more",
			wantOK:    true,
			wantValue: 10,
			wantInt:   true,
		},
		{
			name:      "thousands separators",
			text:      "the total comes to $1,234,567",
			wantOK:    true,
			wantValue: 1234567,
			wantInt:   true,
		},
		{
			name:      "decimal fraction stays a float",
			text:      "so each share is 12.5 in the end",
			wantOK:    true,
			wantValue: 12.5,
			wantInt:   false,
		},
		{
			name:   "ratio tokens excluded",
			text:   "ratio is 3:1",
			wantOK: false,
		},
		{
			name:   "clock time excluded",
			text:   "the train leaves at 12:30",
			wantOK: false,
		},
		{
			name:      "ratio followed by a real answer",
			text:      "mixed at 3:1, that gives 40 liters",
			wantOK:    true,
			wantValue: 40,
			wantInt:   true,
		},
		{
			name:   "no numbers at all",
			text:   "there is no numeric content here",
			wantOK: false,
		},
		{
			name:   "empty text",
			text:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("Extract(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Value != tt.wantValue {
				t.Errorf("Extract(%q) value = %v, want %v", tt.text, got.Value, tt.wantValue)
			}
			if got.IsInt != tt.wantInt {
				t.Errorf("Extract(%q) IsInt = %v, want %v", tt.text, got.IsInt, tt.wantInt)
			}
		})
	}
}

func TestExtractAnchoredCustomPhrase(t *testing.T) {
	got, ok := ExtractAnchored("Final result: 99 apples, total 3", "Final result:")
	if !ok {
		t.Fatal("ExtractAnchored() found nothing")
	}
	if got.Value != 99 {
		t.Errorf("ExtractAnchored() value = %v, want 99", got.Value)
	}
}

func TestExtractorReuse(t *testing.T) {
	// One extractor serves a whole log; the anchored pattern is compiled at
	// construction, not per call.
	e := NewExtractor("Final result:")
	texts := map[string]float64{
		"Final result: 99 apples, total 3": 99,
		"Final result: $7":                 7,
		"no anchor here, just 5 and 12":    12,
	}
	for text, want := range texts {
		got, ok := e.Extract(text)
		if !ok {
			t.Fatalf("Extract(%q) found nothing", text)
		}
		if got.Value != want {
			t.Errorf("Extract(%q) value = %v, want %v", text, got.Value, want)
		}
	}
}

func TestExtractorEmptyAnchor(t *testing.T) {
	e := NewExtractor("")
	got, ok := e.Extract("The answer is 8, not 10 or 12.")
	if !ok {
		t.Fatal("Extract() found nothing")
	}
	if got.Value != 12 {
		t.Errorf("Extract() value = %v, want 12 (positional fallback)", got.Value)
	}
}

func TestNumberString(t *testing.T) {
	if s := (Number{Value: 42, IsInt: true}).String(); s != "42" {
		t.Errorf("String() = %q, want %q", s, "42")
	}
	if s := (Number{Value: 12.5}).String(); s != "12.5" {
		t.Errorf("String() = %q, want %q", s, "12.5")
	}
}
