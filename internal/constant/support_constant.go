package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	LanguageEnglish = "en"
	LanguageMalay   = "ms"

	FeedbackRatingSatisfied    = "satisfied"
	FeedbackRatingNotSatisfied = "not_satisfied"
	FeedbackRatingSkipped      = "skipped"
)

// NormalizeRating maps accepted input aliases onto the stored rating values.
func NormalizeRating(rating string) string {
	if rating == "skip" {
		return FeedbackRatingSkipped
	}
	return rating
}

// QASystemPromptV1 primes the model as the product support assistant.
// The retrieved passages are injected where {context} appears.
const QASystemPromptV1 = `You are a smart, helpful IoT product support assistant.
You answer questions about the company's IoT product catalog using the
reference passages provided below.

Your capabilities:
- Answer questions about the supported products intelligently
- Use the provided documentation context to give accurate, detailed answers
- Ask follow-up questions when needed for better assistance
- Be conversational, helpful, and professional

If the reference passages do not contain the answer, say so honestly instead
of guessing.`

// NoContextMarker is injected in place of passages when retrieval returned
// nothing for a matched product, so the model can state it lacks information.
const NoContextMarker = "[no relevant context found in the product documentation]"

// LanguageDirective returns the hard language constraint injected on every
// generation call, regardless of the query's language.
func LanguageDirective(language string) string {
	switch language {
	case LanguageMalay:
		return "Respond only in Malay (Bahasa Melayu), regardless of the language the question was asked in."
	default:
		return "Respond only in English, regardless of the language the question was asked in."
	}
}

// FeedbackTemplate is the localized acknowledgement shown after a feedback
// submission. Mirrors the bilingual templates of the support flow.
type FeedbackTemplate struct {
	Title   string
	Message string
}

var feedbackTemplatesEn = map[string]FeedbackTemplate{
	FeedbackRatingSatisfied: {
		Title:   "Thank you for your feedback!",
		Message: "We're glad we could help with your product questions. If you need further assistance, feel free to contact our product expert.",
	},
	FeedbackRatingNotSatisfied: {
		Title:   "We're sorry to hear that",
		Message: "Let us connect you with our product expert for better assistance.",
	},
	FeedbackRatingSkipped: {
		Title:   "Session completed",
		Message: "Thank you for using our product support assistant. We hope we were able to help you!",
	},
}

var feedbackTemplatesMs = map[string]FeedbackTemplate{
	FeedbackRatingSatisfied: {
		Title:   "Terima kasih atas maklum balas anda!",
		Message: "Kami gembira dapat membantu anda dengan soalan produk anda. Jika anda memerlukan bantuan lanjut, sila hubungi pakar produk kami.",
	},
	FeedbackRatingNotSatisfied: {
		Title:   "Kami sedih mendengarnya",
		Message: "Mari kami hubungkan anda dengan pakar produk kami untuk bantuan yang lebih baik.",
	},
	FeedbackRatingSkipped: {
		Title:   "Sesi selesai",
		Message: "Terima kasih kerana menggunakan pembantu sokongan produk kami. Kami berharap kami dapat membantu anda!",
	},
}

// FeedbackTemplateFor resolves the localized template for a rating.
func FeedbackTemplateFor(rating, language string) FeedbackTemplate {
	templates := feedbackTemplatesEn
	if language == LanguageMalay {
		templates = feedbackTemplatesMs
	}
	if t, ok := templates[rating]; ok {
		return t
	}
	return templates[FeedbackRatingSkipped]
}
