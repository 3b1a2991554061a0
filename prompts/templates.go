package prompts

import (
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// Following prompt design principles:
// 1. Specify the model's thinking order
// 2. Use markdown and XML for structure
// 3. Assign clear roles
// 4. Use "Important" and "ALWAYS" for critical instructions
// 5. Be explicit about expected outputs

// SystemPrompts holds the chat templates used by the classify and design stages.
type SystemPrompts struct {
	Classify prompt.ChatTemplate
	Design   prompt.ChatTemplate
}

func NewSystemPrompts() *SystemPrompts {
	return &SystemPrompts{
		Classify: createClassifyTemplate(),
		Design:   createDesignTemplate(),
	}
}

func createClassifyTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(`# Your Role
You are an expert web analyst who classifies business websites.

# Your Task
Classify the website below from its content and structure.

# Critical Requirements
1. **Output Format**: Return ONLY a JSON object with NO additional text
2. **Fields**: category, audience, tone, palette_mood - all four, always
3. **Grounding**: Base the classification on the provided content only, NEVER guess from the domain name alone

# Field Guidance
- category: the site's business type (e.g. "ecommerce", "blog", "portfolio", "restaurant", "saas", "local_service", "corporate", "nonprofit")
- audience: who the site serves, one short phrase
- tone: the voice of the copy (e.g. "professional", "playful", "luxurious", "technical")
- palette_mood: the feel of the current colors (e.g. "warm", "cool", "muted", "vibrant", "dark")

**IMPORTANT**: Return ONLY the JSON object. No explanations, no markdown formatting.`),

		schema.UserMessage(`**Website**: {url}
**Title**: {title}
**Detected signals**: {signals}

**Page content (markdown)**:
{content}

Classify this website and return the JSON object only.`),
	)
}

func createDesignTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(`# Your Role
You are a senior web designer who proposes redesigns as structured data.

# Your Task
Propose exactly {variation_count} distinct design variations for the website
described below. Each variation is an abstract widget structure a compiler
turns into a real page, NOT prose and NOT HTML.

# Structure Rules
1. A variation has: id-free "name", "description", ordered "sections", and a "style" sheet
2. A section has: "layout" (number of columns, 1-4) and "columns"; each column holds "widgets"
3. Allowed widget types ONLY: heading, text, image, button, nav, hero, gallery, form, spacer, divider
4. Widget settings per type:
   - heading: "text", "level" (1-3)
   - text: "text"
   - image: "url" OR "query" (a stock-photo search phrase), "alt"
   - button: "text", "href"
   - nav: "links" (array of objects with "text" and "href")
   - hero: "headline", "subheadline", optional "image_query"
   - gallery: "queries" (array of stock-photo phrases, 3-6)
   - form: "fields" (array of "name"/"email"/"phone"/"message"), "submit_text"
   - spacer: "size" ("s", "m" or "l")
   - divider: no settings
5. A style sheet has: "palette" with exactly the keys primary, secondary, accent, background, text (hex colors), "heading_font", "body_font", "radius" ("none", "s", "m", "l"), "spacing" ("compact", "normal", "airy")

# Design Rules
1. **Variation**: the {variation_count} proposals must differ meaningfully in layout, color direction AND typography
2. **Fidelity**: reuse the site's real navigation links and headings where they exist
3. **Category fit**: respect the classification - an ecommerce site keeps product focus, a restaurant keeps menu/booking focus
4. Every variation starts with a nav or hero section and has at least 3 sections

**ALWAYS**: Return ONLY the JSON object {{"variations": [...]}}. No explanations, no markdown formatting.`),

		schema.UserMessage(`**Website**: {url}
**Classification**: {classification}
**Current palette**: {palette}
**Current fonts**: {fonts}
**Navigation links**: {nav_links}
**Section outline**: {sections}

**Page content (markdown)**:
{content}

Propose {variation_count} design variations and return the JSON object only.`),
	)
}
