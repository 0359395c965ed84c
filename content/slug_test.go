package content

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Criação de Sites!": "criacao-de-sites",
		"  Olá,   Mundo  ":  "ola-mundo",
		"Go 1.25 & você":    "go-1-25-voce",
		"---":               "",
		"Ação-Reação":       "acao-reacao",
		"já-está-em-slug":   "ja-esta-em-slug",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlugifyTruncates(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "palavra "
	}
	got := Slugify(long)
	if len(got) > maxSlugLen {
		t.Fatalf("len = %d, want <= %d", len(got), maxSlugLen)
	}
	if got[len(got)-1] == '-' {
		t.Fatalf("slug termina com hífen: %q", got)
	}
}
