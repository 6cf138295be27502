package wikilink

import "testing"

func TestParseExact(t *testing.T) {
	tests := []struct {
		in          string
		wantTarget  string
		wantDisplay *string
		wantOK      bool
	}{
		{in: "[[people/freya]]", wantTarget: "people/freya", wantOK: true},
		{in: " [[people/freya]] ", wantTarget: "people/freya", wantOK: true},
		{in: "![[diagram]]", wantTarget: "diagram", wantOK: true},
		{
			in:         "[[people/freya#Early life|Lady Freya]]",
			wantTarget: "people/freya#Early life",
			wantDisplay: func() *string {
				s := "Lady Freya"
				return &s
			}(),
			wantOK: true,
		},
		{in: "[[]]", wantOK: false},
		{in: "people/freya", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			target, display, ok := ParseExact(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok=%v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if target != tt.wantTarget {
				t.Fatalf("target=%q, want %q", target, tt.wantTarget)
			}
			if (display == nil) != (tt.wantDisplay == nil) {
				t.Fatalf("display nil=%v, want %v", display == nil, tt.wantDisplay == nil)
			}
			if display != nil && *display != *tt.wantDisplay {
				t.Fatalf("display=%q, want %q", *display, *tt.wantDisplay)
			}
		})
	}
}

func TestFindAllInLine(t *testing.T) {
	line := "See [[a]] and [[b#Intro|B]] and ![[c]] and [[[d]]]"
	m := FindAllInLine(line, false)
	if len(m) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(m))
	}
	if m[0].Note != "a" || m[0].Heading != "" {
		t.Errorf("first match = %+v", m[0])
	}
	if m[1].Note != "b" || m[1].Heading != "Intro" || m[1].DisplayText == nil || *m[1].DisplayText != "B" {
		t.Errorf("second match = %+v", m[1])
	}
	if !m[2].Embed || m[2].Note != "c" {
		t.Errorf("third match = %+v", m[2])
	}

	m2 := FindAllInLine(line, true)
	if len(m2) != 4 {
		t.Fatalf("expected 4 matches with allowTriple=true, got %d", len(m2))
	}
	if m2[3].Target != "d" {
		t.Fatalf("expected fourth match target=d, got %q", m2[3].Target)
	}
}

func TestScanAt(t *testing.T) {
	input := `x [[people/freya|Freya]] y`
	end, target, literal, ok := ScanAt(input, 2)
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if target != "people/freya" {
		t.Fatalf("target=%q, want %q", target, "people/freya")
	}
	if literal != "[[people/freya|Freya]]" {
		t.Fatalf("literal=%q", literal)
	}
	if end != 2+len(literal) {
		t.Fatalf("end=%d, want %d", end, 2+len(literal))
	}
}

func TestSplit(t *testing.T) {
	tests := []struct{ in, note, heading string }{
		{"foo", "foo", ""},
		{"foo#Bar", "foo", "Bar"},
		{"#Bar", "", "Bar"},
		{"dir/foo # Bar baz", "dir/foo", "Bar baz"},
	}
	for _, tt := range tests {
		note, heading := Split(tt.in)
		if note != tt.note || heading != tt.heading {
			t.Errorf("Split(%q) = (%q, %q), want (%q, %q)", tt.in, note, heading, tt.note, tt.heading)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct{ note, heading, display, want string }{
		{"Foo", "", "", "[[Foo]]"},
		{"Foo", "Tips useful", "", "[[Foo#Tips useful]]"},
		{"dir/Foo", "", "F", "[[dir/Foo|F]]"},
		{"Foo", "H", "F", "[[Foo#H|F]]"},
		{"b/Dup", "X | y", "", "[[b/Dup#X y]]"},
		{"Foo", "[[Bar]] notes", "", "[[Foo#Bar notes]]"},
		{"Foo", "C# ^tips", "", "[[Foo#C tips]]"},
		{"Foo", " | ", "", "[[Foo]]"},
		{"Foo", "", "a]]b", "[[Foo|ab]]"},
	}
	for _, tt := range tests {
		if got := Format(tt.note, tt.heading, tt.display); got != tt.want {
			t.Errorf("Format(%q, %q, %q) = %q, want %q", tt.note, tt.heading, tt.display, got, tt.want)
		}
	}
}
