package ollama

import (
	"fmt"
	"strings"

	"github.com/poiesic/curio/ai"
)

// captionInstruction asks the vision model for output shaped like classic
// captioning models, so downstream lead-in stripping keeps working.
const captionInstruction = `Describe this image in one short sentence. State only what is visible: the subject, its materials or medium, and the setting. Do not speculate, interpret, or add pleasantries.`

const summaryPromptTemplate = `You are a renowned art historian and museum curator with expertise in visual analysis and cultural context. Create a sophisticated, detailed 2-3 sentence summary that transforms the basic visual description into a rich, contextual artwork description.

Artwork Information:
%s

Instructions:
- Write exactly 2-3 sentences
- Elevate the visual description with art historical terminology and cultural significance
- Include specific details about style, technique, period characteristics, or cultural meaning
- Mention materials, artistic movement, or historical context when relevant
- Use sophisticated but accessible museum-quality language
- Transform generic descriptions into compelling, informative summaries
- Focus on what makes this piece unique or representative of its time/culture

Create a museum-quality description:`

// descriptionMinLen filters out stub descriptions; descriptionMaxLen keeps
// the prompt from drowning in catalog prose.
const (
	descriptionMinLen = 20
	descriptionMaxLen = 300
)

// buildSummaryPrompt assembles the artwork information block. Catalog
// placeholders ("Untitled", "Unknown Artist", ...) carry no signal and are
// omitted so the model never parrots them back.
func buildSummaryPrompt(art ai.ArtworkContext) string {
	parts := []string{"Visual description: " + art.ImageCaption}

	appendReal := func(label, value, placeholder string) {
		if value != "" && value != placeholder {
			parts = append(parts, label+": "+value)
		}
	}
	appendReal("Title", art.Title, "Untitled")
	appendReal("Artist", art.Artist, "Unknown Artist")
	appendReal("Date", art.Date, "Unknown Date")
	appendReal("Medium", art.Medium, "Unknown Medium")
	appendReal("Culture", art.Culture, "Unknown Culture")
	appendReal("Department", art.Department, "Unknown Department")

	if len(art.Description) > descriptionMinLen {
		desc := art.Description
		if len(desc) > descriptionMaxLen {
			desc = desc[:descriptionMaxLen] + "..."
		}
		parts = append(parts, "Additional context: "+desc)
	}

	return fmt.Sprintf(summaryPromptTemplate, strings.Join(parts, "\n"))
}
