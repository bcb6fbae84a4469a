package title

import (
	"math"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"punctuation and year", "Deep Learning—A Review (2019).", "deep learning a review 2019"},
		{"hyphenated words", "Self-supervised pre‑training", "self supervised pre training"},
		{"minus sign", "x−y", "x y"},
		{"full-width forms", "ＡＢＣ　ｄｅｆ", "abc def"},
		{"accented letters", "Café au Lait", "café au lait"},
		{"cjk with full-width colon", "參考文獻：深度學習", "參考文獻深度學習"},
		{"collapsed whitespace", "  many    spaces here  ", "many spaces here"},
		{"only punctuation", "!!! ... ???", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanForRemedial(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"strips years and pages", "Smith, J. (2019). Deep learning, pp. 12-34.", "smith j deep learning pp"},
		{"keeps attached digits", "COVID19 cases in 2020", "covid19 cases in"},
		{"full-width digits", "第１２３號 report", "第123號 report"},
		{"standalone after cjk punctuation", "研究，2019，。", "研究"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanForRemedial(tt.input); got != tt.want {
				t.Errorf("CleanForRemedial(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	samples := []string{
		"",
		"Smith, J. (2019). A long title that wraps onto a second line.",
		"[1] A. Author, \"Quoted title,\" in Proc. IEEE, 2020, pp. 1–10.",
		"王小明（2020a）。人工智慧導論：第１版。台北：出版社。",
		"Ünïcödé — ｆｕｌｌ ｗｉｄｔｈ ① ½ Ⅻ",
		"x_1 and 1_ and 3.14 and v2.0",
		"tab\tnew\nline",
	}

	for _, s := range samples {
		once := Clean(s)
		if twice := Clean(once); twice != once {
			t.Errorf("Clean not idempotent for %q: %q then %q", s, once, twice)
		}
		onceR := CleanForRemedial(s)
		if twiceR := CleanForRemedial(onceR); twiceR != onceR {
			t.Errorf("CleanForRemedial not idempotent for %q: %q then %q", s, onceR, twiceR)
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "deep learning", "deep learning", 1},
		{"both empty", "", "", 1},
		{"one empty", "abc", "", 0},
		{"one char differs", "abc", "abd", 4.0 / 6.0},
		{"disjoint", "abc", "xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarity_CountsCharactersNotBytes(t *testing.T) {
	got := Similarity("深度學習", "深度學習模型")
	want := 2.0 * 4 / 10
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Similarity = %v, want %v", got, want)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name             string
		query, candidate string
		want             Relation
	}{
		{"exact", "deep learning for text", "deep learning for text", Exact},
		{"similar", "deep learning for text classification", "deep learning for text classifications", Similar},
		{"unrelated", "deep learning for text", "protein folding at scale", Unrelated},
		{"empty query", "", "anything", Unrelated},
		{"empty candidate", "anything", "", Unrelated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.query, tt.candidate, SimilarThreshold); got != tt.want {
				t.Errorf("Compare(%q, %q) = %v, want %v", tt.query, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	if !Contains("deep learning for text", "deep learning") {
		t.Error("expected containment of shorter key")
	}
	if !Contains("deep learning", "deep learning for text") {
		t.Error("expected containment in either direction")
	}
	if Contains("", "deep learning") {
		t.Error("empty key should never match")
	}
	if Contains("protein folding", "deep learning") {
		t.Error("unrelated keys should not match")
	}
}
