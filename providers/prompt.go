package providers

import "catch-guard/domain"

// verdictInstruction pins the JSON shape every backend must answer with.
const verdictInstruction = `Respond with a single JSON object and nothing else: ` +
	`{"approved": <bool>, "confidence": <number between 0 and 1>, ` +
	`"reason": "<short explanation>", "categories": ["<category>", ...]}. ` +
	`Add "pending_review" to categories when you want a human decision.`

const defaultPrompt = `You are the content moderator of a fishing community app. ` +
	`Judge whether the submitted content is acceptable: no spam, harassment, ` +
	`hate speech, sexual content, doxxing or off-topic advertising. ` +
	`Honest fishing brags, locations and gear talk are welcome. ` + verdictInstruction

// promptTemplates is the static per-content-type prompt table. Types missing
// from the table use the default prompt.
var promptTemplates = map[domain.ContentType]string{
	domain.CatchPhotos: `You moderate photos attached to fish catch reports in a fishing community app. ` +
		`Acceptable: fish, fishing gear, water, landscapes, anglers. ` +
		`Unacceptable: nudity, violence unrelated to fishing, protected species shown harmed, unrelated spam imagery. ` + verdictInstruction,
	domain.PointPhotos: `You moderate photos attached to fishing-spot descriptions. ` +
		`Acceptable: shorelines, water, maps, scenery, access paths. ` +
		`Unacceptable: nudity, violence, private property interiors, unrelated spam imagery. ` + verdictInstruction,
	domain.UserBio: `You moderate user biography texts in a fishing community app. ` +
		`Unacceptable: contact-info harvesting, advertising, harassment, impersonation. ` + verdictInstruction,
}

// PromptFor returns the moderation prompt for a content type.
func PromptFor(contentType domain.ContentType) string {
	if prompt, ok := promptTemplates[contentType]; ok {
		return prompt
	}
	return defaultPrompt
}
