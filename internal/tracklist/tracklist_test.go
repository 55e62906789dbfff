package tracklist

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []TrackQuery
	}{
		{
			name: "single listing line",
			text: "3  Artist Name -- Track Title  (1998)",
			want: []TrackQuery{{Artist: "Artist Name", Title: "Track Title"}},
		},
		{
			name: "missing year suffix",
			text: "3  Artist Name -- Track Title",
			want: nil,
		},
		{
			name: "missing separator",
			text: "3  Artist Name - Track Title  (1998)",
			want: nil,
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "prose around listing lines",
			text: "This week's mixtape!\n1 First Band -- Opener (2001)\nsome commentary\n2 Second Band -- Closer (1984)\nbye",
			want: []TrackQuery{
				{Artist: "First Band", Title: "Opener"},
				{Artist: "Second Band", Title: "Closer"},
			},
		},
		{
			name: "artist containing delimiter is cut at first occurrence",
			text: "1 Alpha -- Beta -- Gamma (1999)",
			want: []TrackQuery{{Artist: "Alpha", Title: "Beta -- Gamma"}},
		},
		{
			name: "no leading index",
			text: "Artist -- Title (1998)",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Parse() returned %d queries, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Parse()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParse_OrderFollowsInput(t *testing.T) {
	forward := "1 A -- X (2000)\n2 B -- Y (2001)"
	reversed := "2 B -- Y (2001)\n1 A -- X (2000)"

	f := Parse(forward)
	r := Parse(reversed)

	if len(f) != 2 || len(r) != 2 {
		t.Fatalf("expected 2 queries each, got %d and %d", len(f), len(r))
	}
	if f[0] != r[1] || f[1] != r[0] {
		t.Errorf("swapping input lines should swap output order: %+v vs %+v", f, r)
	}
}

func TestTrackQuery_Query(t *testing.T) {
	q := TrackQuery{Artist: "Artist Name", Title: "Track Title"}
	if got := q.Query(); got != "Artist Name Track Title" {
		t.Errorf("Query() = %q, want %q", got, "Artist Name Track Title")
	}
}
