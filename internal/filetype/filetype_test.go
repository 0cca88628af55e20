package filetype

import "testing"

func TestInfer(t *testing.T) {
	cases := []struct {
		name string
		want FileType
	}{
		{"notes.md", Text},
		{"notes.txt", Text},
		{"report.pdf", PDF},
		{"scan.PNG", Image},
		{"photo.JpEg", Image},
		{"talk.mp3", Audio},
		{"memo.docx", Document},
		{"deck.pptx", Presentation},
		{"sheet.xlsx", Spreadsheet},
		{"legacy.rtf", RTF},
		{"page.html", HTML},
		{"page.htm", HTML},
		{"  spaced.pdf  ", PDF},
		{"archive.zip", Other},
		{"noextension", Other},
		{"", Other},
	}

	for _, tc := range cases {
		if got := Infer(tc.name); got != tc.want {
			t.Errorf("Infer(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestTitle(t *testing.T) {
	if got := PDF.Title(); got != "Pdf" {
		t.Errorf("PDF.Title() = %q, want %q", got, "Pdf")
	}
	if got := FileType("").Title(); got != "" {
		t.Errorf("empty Title() = %q, want empty", got)
	}
}
