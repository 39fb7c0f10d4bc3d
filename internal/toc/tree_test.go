package toc

import "testing"

func TestSectionNumber(t *testing.T) {
	tests := []struct {
		number []int
		want   string
	}{
		{nil, ""},
		{[]int{1}, "1."},
		{[]int{10, 1}, "10.1."},
		{[]int{24, 1, 2}, "24.1.2."},
	}
	for _, tt := range tests {
		n := &Node{Kind: Chapter, Number: tt.number}
		if got := n.SectionNumber(); got != tt.want {
			t.Errorf("SectionNumber(%v) = %q, want %q", tt.number, got, tt.want)
		}
	}
}

func TestMdPathToHTML(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Introduction.md", "Introduction.html"},
		{"chap01/Overview.md", "chap01/Overview.html"},
		{"README.md", "index.html"},
		{"guide/README.md", "guide/index.html"},
		{"chap01/Overview.md#setup", "chap01/Overview.html#setup"},
		{"already.html", "already.html"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := mdPathToHTML(tt.input); got != tt.want {
			t.Errorf("mdPathToHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLinksSkipsDraftsAndDividers(t *testing.T) {
	tree := &Tree{Items: []*Node{
		{Kind: Chapter, Title: "Intro", Path: "intro.html", Affix: true},
		{Kind: PartTitle, Title: "Part"},
		{Kind: Chapter, Title: "One", Path: "one.html", Number: []int{1}, Children: []*Node{
			{Kind: Chapter, Title: "One.One", Path: "one/one.html", Number: []int{1, 1}},
		}},
		{Kind: Separator},
		{Kind: Chapter, Title: "Draft", Number: []int{2}},
	}}

	links := tree.Links()
	want := []string{"intro.html", "one.html", "one/one.html"}
	if len(links) != len(want) {
		t.Fatalf("Links() returned %d nodes, want %d", len(links), len(want))
	}
	for i, n := range links {
		if n.Path != want[i] {
			t.Errorf("links[%d] = %q, want %q", i, n.Path, want[i])
		}
	}
	if !tree.Items[4].Draft() {
		t.Error("chapter without a path should be a draft")
	}
}
