package doc

import "fmt"

// Builtin templates ship with the binary; user templates from config
// are merged on top and may shadow these by name.
var builtinTemplates = []Template{
	{
		Name:        "business-letter",
		Description: "Formal business letter",
		Body: `{{sender_name}}
{{sender_address}}

{{date}}

{{recipient_name}}
{{recipient_address}}

Dear {{recipient_name}},

{{body}}

Sincerely,

{{sender_name}}
{{sender_title}}
`,
	},
	{
		Name:        "meeting-minutes",
		Description: "Meeting minutes with attendees and action items",
		Body: `# Meeting Minutes: {{topic}}

**Date:** {{date}}
**Attendees:** {{attendees}}

## Agenda

{{agenda}}

## Discussion

{{discussion}}

## Action Items

{{action_items}}

## Next Meeting

{{next_meeting}}
`,
	},
	{
		Name:        "technical-spec",
		Description: "Technical specification document",
		Body: `# {{title}}

**Author:** {{author}}
**Status:** {{status}}
**Date:** {{date}}

## Summary

{{summary}}

## Background

{{background}}

## Design

{{design}}

## Alternatives Considered

{{alternatives}}

## Open Questions

{{open_questions}}
`,
	},
	{
		Name:        "academic-abstract",
		Description: "Academic paper abstract",
		Body: `# {{title}}

{{authors}}

## Abstract

{{abstract}}

**Keywords:** {{keywords}}
`,
	},
}

// BuiltinTemplates returns a copy of the built-in template catalogue.
func BuiltinTemplates() []Template {
	out := make([]Template, len(builtinTemplates))
	copy(out, builtinTemplates)
	return out
}

// FindTemplate looks a template up by name, searching extras before the
// built-in catalogue so user templates shadow shipped ones.
func FindTemplate(name string, extras []Template) (*Template, error) {
	for i := range extras {
		if extras[i].Name == name {
			return &extras[i], nil
		}
	}
	for i := range builtinTemplates {
		if builtinTemplates[i].Name == name {
			t := builtinTemplates[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("template not found: %s", name)
}
