package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xtding233/orbsim/internal/gacha"
	"github.com/xtding233/orbsim/internal/preset"
)

func TestResolveGoal(t *testing.T) {
	loader := preset.NewLoader("")

	g, err := resolveGoal(loader, simulateFlags{goal: "specific-five-char", copies: 3, usePath: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Targets) != 1 || g.Targets[0].Copies != 3 || !g.UsePath {
		t.Fatalf("goal = %+v", g)
	}

	if _, err := resolveGoal(loader, simulateFlags{}); err == nil {
		t.Fatal("missing goal accepted")
	}

	path := filepath.Join(t.TempDir(), "pair.yaml")
	body := "combinator: any\ntargets:\n  - {tier: 5, unit: character, copies: 2}\n  - {tier: 4, copies: 1}\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err = resolveGoal(loader, simulateFlags{goalFile: path})
	if err != nil {
		t.Fatal(err)
	}
	if g.Combinator != gacha.Any || len(g.Targets) != 2 || g.Targets[0].Scope != gacha.AnyCharacter {
		t.Fatalf("goal file = %+v", g)
	}
}

func TestMoney(t *testing.T) {
	if got := money(229800, "USD"); got != "2,298.00 USD" {
		t.Fatalf("money = %q", got)
	}
	if got := money(1199, "USD"); got != "11.99 USD" {
		t.Fatalf("money = %q", got)
	}
}
