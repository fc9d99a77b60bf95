package xmlname

import "testing"

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "plain", in: "name", want: true},
		{name: "hyphenated", in: "sub-name", want: true},
		{name: "underscore start", in: "_name", want: true},
		{name: "digits and dots", in: "n1.2", want: true},
		{name: "unicode letters", in: "näme", want: true},
		{name: "empty", in: "", want: false},
		{name: "leading digit", in: "1name", want: false},
		{name: "leading hyphen", in: "-name", want: false},
		{name: "leading dot", in: ".name", want: false},
		{name: "space", in: "bad name", want: false},
		{name: "colon", in: "a:b", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.in); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitQName(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantPrefix string
		wantLocal  string
		wantErr    bool
	}{
		{name: "unprefixed", in: "name", wantLocal: "name"},
		{name: "prefixed", in: "pfx:name", wantPrefix: "pfx", wantLocal: "name"},
		{name: "empty", in: "", wantErr: true},
		{name: "empty prefix", in: ":name", wantErr: true},
		{name: "empty local part", in: "pfx:", wantErr: true},
		{name: "bare colon", in: ":", wantErr: true},
		{name: "second colon", in: "a:b:c", wantErr: true},
		{name: "invalid prefix", in: "1a:name", wantErr: true},
		{name: "invalid local part", in: "pfx:bad name", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, local, err := SplitQName(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SplitQName(%q): expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitQName(%q) error: %v", tt.in, err)
			}
			if prefix != tt.wantPrefix || local != tt.wantLocal {
				t.Errorf("SplitQName(%q) = %q, %q, want %q, %q",
					tt.in, prefix, local, tt.wantPrefix, tt.wantLocal)
			}
		})
	}
}

func TestToXMLToGo(t *testing.T) {
	tests := []struct {
		goName  string
		xmlName string
	}{
		{goName: "some_attr", xmlName: "some-attr"},
		{goName: "sub_sub_name", xmlName: "sub-sub-name"},
		{goName: "plain", xmlName: "plain"},
		{goName: "", xmlName: ""},
	}

	for _, tt := range tests {
		if got := ToXML(tt.goName); got != tt.xmlName {
			t.Errorf("ToXML(%q) = %q, want %q", tt.goName, got, tt.xmlName)
		}
		if got := ToGo(tt.xmlName); got != tt.goName {
			t.Errorf("ToGo(%q) = %q, want %q", tt.xmlName, got, tt.goName)
		}
	}
}
