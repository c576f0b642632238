package doc

import (
	"reflect"
	"strings"
	"testing"
)

func TestTemplateVariables(t *testing.T) {
	tpl := Template{Body: "Dear {{name}},\n\n{{body}}\n\nFrom {{name}} on {{ date }}"}
	got := tpl.Variables()
	want := []string{"body", "date", "name"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Variables() = %v, want %v", got, want)
	}
}

func TestTemplateRender(t *testing.T) {
	tpl := Template{Body: "Hello {{name}}, re: {{subject}}. Bye {{name}}."}

	body, missing := tpl.Render(map[string]string{"name": "Ada"})
	if body != "Hello Ada, re: {{subject}}. Bye Ada." {
		t.Errorf("body = %q", body)
	}
	if !reflect.DeepEqual(missing, []string{"subject"}) {
		t.Errorf("missing = %v, want [subject]", missing)
	}

	body, missing = tpl.Render(map[string]string{"name": "Ada", "subject": "budget"})
	if body != "Hello Ada, re: budget. Bye Ada." {
		t.Errorf("body = %q", body)
	}
	if len(missing) != 0 {
		t.Errorf("missing = %v, want none", missing)
	}
}

func TestTemplateRenderLeavesNonIdentBracesAlone(t *testing.T) {
	tpl := Template{Body: `config: {{"key": "value"}} and {{real_var}}`}
	body, missing := tpl.Render(map[string]string{"real_var": "x"})
	if !strings.Contains(body, `{{"key": "value"}}`) {
		t.Errorf("literal braces rewritten: %q", body)
	}
	if !strings.Contains(body, " and x") {
		t.Errorf("placeholder not substituted: %q", body)
	}
	if len(missing) != 0 {
		t.Errorf("missing = %v, want none", missing)
	}
}

func TestTemplateRenderUnclosedBraces(t *testing.T) {
	tpl := Template{Body: "start {{oops"}
	body, missing := tpl.Render(nil)
	if body != "start {{oops" {
		t.Errorf("body = %q", body)
	}
	if len(missing) != 0 {
		t.Errorf("missing = %v, want none", missing)
	}
}

func TestBuiltinTemplates(t *testing.T) {
	all := BuiltinTemplates()
	if len(all) == 0 {
		t.Fatal("no builtin templates")
	}
	seen := make(map[string]bool)
	for _, tpl := range all {
		if tpl.Name == "" || tpl.Body == "" {
			t.Errorf("template %+v missing name or body", tpl)
		}
		if seen[tpl.Name] {
			t.Errorf("duplicate template name %q", tpl.Name)
		}
		seen[tpl.Name] = true
		if len(tpl.Variables()) == 0 {
			t.Errorf("template %q has no placeholders", tpl.Name)
		}
	}
	if !seen["business-letter"] || !seen["meeting-minutes"] {
		t.Error("expected business-letter and meeting-minutes builtins")
	}
}

func TestFindTemplate(t *testing.T) {
	extras := []Template{{Name: "business-letter", Description: "custom", Body: "{{x}}"}}

	got, err := FindTemplate("business-letter", extras)
	if err != nil {
		t.Fatalf("FindTemplate failed: %v", err)
	}
	if got.Description != "custom" {
		t.Errorf("user template did not shadow builtin: %+v", got)
	}

	got, err = FindTemplate("technical-spec", extras)
	if err != nil {
		t.Fatalf("FindTemplate failed: %v", err)
	}
	if got.Name != "technical-spec" {
		t.Errorf("got %q", got.Name)
	}

	if _, err := FindTemplate("no-such", nil); err == nil {
		t.Error("expected error for unknown template")
	}
}
