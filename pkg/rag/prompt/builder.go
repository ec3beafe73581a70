package prompt

import (
	"fmt"
	"strings"

	"iot-support-be/internal/constant"
	"iot-support-be/pkg/llm"
	"iot-support-be/pkg/retrieval"
)

// Builder assembles the chat bundle for one generation call: a system
// message carrying the assistant role, the language directive and the
// retrieved passages, followed by recent history and the current query.
type Builder struct {
	language string
	query    string
	passages []retrieval.Passage
	history  []llm.Message
}

func NewBuilder(language, query string, passages []retrieval.Passage, history []llm.Message) *Builder {
	return &Builder{
		language: language,
		query:    query,
		passages: passages,
		history:  history,
	}
}

// Build returns the full message list ready for the LLM provider. The
// language directive is injected on every call, never inferred from the
// query.
func (b *Builder) Build() []llm.Message {
	messages := make([]llm.Message, 0, len(b.history)+2)

	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: b.buildSystemContent(),
	})

	messages = append(messages, b.history...)

	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: b.query,
	})

	return messages
}

func (b *Builder) buildSystemContent() string {
	var sb strings.Builder

	sb.WriteString(constant.QASystemPromptV1)
	sb.WriteString("\n\n")

	sb.WriteString("<language>\n")
	sb.WriteString(constant.LanguageDirective(b.language))
	sb.WriteString("\n</language>\n\n")

	b.writeReferencePassages(&sb)

	return sb.String()
}

func (b *Builder) writeReferencePassages(sb *strings.Builder) {
	sb.WriteString("<reference_passages>\n")

	if len(b.passages) == 0 {
		sb.WriteString(constant.NoContextMarker)
		sb.WriteString("\n")
	} else {
		for i, p := range b.passages {
			sb.WriteString(fmt.Sprintf("[Passage %d: %s]\n", i+1, p.Title))
			sb.WriteString(p.Content)
			sb.WriteString("\n\n")
		}
	}

	sb.WriteString("</reference_passages>\n")
}
