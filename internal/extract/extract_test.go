package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/diwan/internal/model"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

// TestPoetName tests poet name extraction.
func TestPoetName(t *testing.T) {
	t.Parallel()

	t.Run("takes the last line of the first heading", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, "<html><body><h2>\n  ديوان\n  المتنبي  \n</h2><h2>other</h2></body></html>")
		name, err := PoetName(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if name != "المتنبي" {
			t.Errorf("expected المتنبي, got %q", name)
		}
	})

	t.Run("single line heading", func(t *testing.T) {
		t.Parallel()

		name, err := PoetName(mustDoc(t, "<h2>أحمد شوقي</h2>"))
		if err != nil || name != "أحمد شوقي" {
			t.Errorf("unexpected result %q, %v", name, err)
		}
	})

	t.Run("missing heading", func(t *testing.T) {
		t.Parallel()

		_, err := PoetName(mustDoc(t, "<html><body><h3>x</h3></body></html>"))
		if !errors.Is(err, ErrPoetNameNotFound) {
			t.Errorf("expected ErrPoetNameNotFound, got %v", err)
		}
	})
}

// TestPoemText tests both poem layouts.
func TestPoemText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		html    string
		want    string
		kind    LayoutKind
		wantErr error
	}{
		{
			name: "modern text is verbatim",
			html: `<div id="poem_content"><h4>  سطر أول
سطر ثان </h4></div>`,
			want: "  سطر أول\nسطر ثان ",
			kind: LayoutModern,
		},
		{
			name: "classical even count",
			html: `<div id="poem_content"><h3> A </h3><h3>B</h3><h3>C</h3><h3> D</h3></div>`,
			want: "A\tB\nC\tD\n",
			kind: LayoutClassical,
		},
		{
			name: "classical odd count keeps trailing tab",
			html: `<div id="poem_content"><h3>A</h3><h3>B</h3><h3>C</h3></div>`,
			want: "A\tB\nC\t",
			kind: LayoutClassical,
		},
		{
			name: "modern wins over classical",
			html: `<div id="poem_content"><h3>A</h3><h4>verse</h4></div>`,
			want: "verse",
			kind: LayoutModern,
		},
		{
			name:    "missing container",
			html:    `<div><h4>x</h4></div>`,
			kind:    LayoutUnrecognized,
			wantErr: ErrUnrecognizedLayout,
		},
		// A container with neither h4 nor h3 lines is reported as an
		// unrecognized layout, not as a poem with empty text.
		{
			name:    "empty container",
			html:    `<div id="poem_content"><p>x</p></div>`,
			kind:    LayoutUnrecognized,
			wantErr: ErrUnrecognizedLayout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustDoc(t, tt.html)
			if kind := DetectLayout(doc).Kind; kind != tt.kind {
				t.Errorf("expected layout %s, got %s", tt.kind, kind)
			}

			got, err := PoemText(doc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestParseInfo tests mapping info cells to fields.
func TestParseInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		values  []string
		want    Info
		wantErr bool
	}{
		{name: "none", values: nil, wantErr: true},
		{name: "one", values: []string{"مدح"}, wantErr: true},
		{name: "two", values: []string{"مدح", "عمودية"}, want: Info{Genre: "مدح", Type: "عمودية"}},
		{name: "three", values: []string{"مدح", "عمودية", "x"}, want: Info{Genre: "مدح", Type: "عمودية"}},
		{
			name:   "four",
			values: []string{"مدح", "عمودية", "الطويل", "ل"},
			want:   Info{Genre: "مدح", Type: "عمودية", Meter: "الطويل", Rhyme: "ل"},
		},
		{name: "five", values: []string{"a", "b", "c", "d", "e"}, want: Info{Genre: "a", Type: "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseInfo(tt.values)
			if tt.wantErr {
				if !errors.Is(err, ErrInsufficientInfo) {
					t.Errorf("expected ErrInsufficientInfo, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseInfo mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestPoemInfo tests info cell extraction and Apply.
func TestPoemInfo(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `<div class="row">
		<div class="col-6 col-md-3"> مدح </div>
		<div class="col-6 col-md-3">عمودية</div>
		<div class="col-6">ignored</div>
	</div>`)

	values := PoemInfo(doc)
	if diff := cmp.Diff([]string{"مدح", "عمودية"}, values); diff != "" {
		t.Fatalf("PoemInfo mismatch (-want +got):\n%s", diff)
	}

	info, err := ParseInfo(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	poem := &model.Poem{Meter: "stale"}
	info.Apply(poem)
	if poem.Genre != "مدح" || poem.Type != "عمودية" || poem.Meter != "" {
		t.Errorf("unexpected poem fields: %+v", poem)
	}
}

// TestLinks tests poem and poet link extraction.
func TestLinks(t *testing.T) {
	t.Parallel()

	t.Run("poem links", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<body>
			<a class="float-right" href="poem1.html"> قصيدة أولى </a>
			<a href="other.html">other</a>
			<a class="btn float-right" href="poem2.html">قصيدة ثانية</a>
		</body>`)

		want := []Link{
			{Title: "قصيدة أولى", Href: "poem1.html"},
			{Title: "قصيدة ثانية", Href: "poem2.html"},
		}
		if diff := cmp.Diff(want, PoemLinks(doc)); diff != "" {
			t.Errorf("PoemLinks mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("poet links by prefix", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<body>
			<a href="cat-poet-a">A</a>
			<a href="authers-1?page=2">2</a>
			<a href="cat-poet-b">B</a>
			<a href="cat-poet-a">A again</a>
			<a>no href</a>
		</body>`)

		want := []string{"cat-poet-a", "cat-poet-b", "cat-poet-a"}
		if diff := cmp.Diff(want, PoetLinks(doc, "cat-poet")); diff != "" {
			t.Errorf("PoetLinks mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestResolve tests joining links with the base URL.
func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base, href, want string
	}{
		{"https://www.aldiwan.net/", "poem123.html", "https://www.aldiwan.net/poem123.html"},
		{"https://www.aldiwan.net/", "cat-poet-x", "https://www.aldiwan.net/cat-poet-x"},
		{"https://www.aldiwan.net/", "https://other.example/p", "https://other.example/p"},
		{"http://127.0.0.1:8080/", "/p?id=1", "http://127.0.0.1:8080/p?id=1"},
	}

	for _, tt := range tests {
		got, err := Resolve(tt.base, tt.href)
		if err != nil {
			t.Errorf("Resolve(%q, %q) unexpected error: %v", tt.base, tt.href, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}
