package kardex_test

import (
	"errors"
	"testing"

	"github.com/borghilucas/fluitax/internal/kardex"
)

var registry = []kardex.Company{
	{ID: 1, Name: "Torrefação Serra Azul Ltda", CNPJ: "11.111.111/0001-11"},
	{ID: 2, Name: "Comércio de Café Serra Azul Ltda", CNPJ: "22.222.222/0001-22"},
	{ID: 3, Name: "Transportadora Vale Verde", CNPJ: "33.333.333/0001-33"},
}

func TestResolveCompanies_ExplicitIDs(t *testing.T) {
	cfg := kardex.DefaultConfig()
	cfg.CompanyIDs = []int{2, 1}

	got, err := kardex.ResolveCompanies(cfg, registry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
		t.Errorf("resolved %+v, want companies 2 then 1", got)
	}
}

func TestResolveCompanies_ExplicitCNPJs(t *testing.T) {
	cfg := kardex.DefaultConfig()
	cfg.CompanyCNPJs = []string{"11111111000111", "22.222.222/0001-22"}

	got, err := kardex.ResolveCompanies(cfg, registry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("resolved %+v, want companies 1 then 2", got)
	}
}

func TestResolveCompanies_Matchers(t *testing.T) {
	cfg := kardex.DefaultConfig() // matchers: TORREFACAO; COMERCIO+CAFE

	got, err := kardex.ResolveCompanies(cfg, registry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("resolved %+v, want companies 1 then 2", got)
	}
}

func TestResolveCompanies_FailsClosed(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*kardex.Config)
	}{
		{"unknown id", func(c *kardex.Config) { c.CompanyIDs = []int{1, 99} }},
		{"unknown cnpj", func(c *kardex.Config) { c.CompanyCNPJs = []string{"99999999000199"} }},
		{"matcher without match", func(c *kardex.Config) {
			c.CompanyMatchers = append(c.CompanyMatchers, kardex.CompanyMatcher{Label: "exportadora", Tokens: []string{"EXPORTADORA"}})
		}},
		{"nothing configured", func(c *kardex.Config) { c.CompanyMatchers = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := kardex.DefaultConfig()
			tt.mut(&cfg)
			_, err := kardex.ResolveCompanies(cfg, registry)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var ce *kardex.ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("expected ConfigError, got %T: %v", err, err)
			}
		})
	}
}
