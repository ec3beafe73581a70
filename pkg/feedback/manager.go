package feedback

import (
	"context"
	"fmt"
	"strings"

	"iot-support-be/internal/constant"
	"iot-support-be/internal/entity"
	"iot-support-be/internal/pkg/logger"
	"iot-support-be/internal/repository/contract"
	"iot-support-be/internal/repository/specification"

	"github.com/google/uuid"
)

// Outcome is the resolved feedback response: the localized acknowledgement
// plus the expert the user can follow up with.
type Outcome struct {
	Template      constant.FeedbackTemplate
	Expert        *entity.ExpertContact
	ExpertContact string
}

// Manager resolves feedback ratings into localized acknowledgements and
// expert handoffs. The expert is the product's own contact when the session
// resolved a product, otherwise the first general expert.
type Manager struct {
	productRepository contract.ProductRepository
	expertRepository  contract.ExpertRepository
	logger            logger.ILogger
}

func NewManager(
	productRepository contract.ProductRepository,
	expertRepository contract.ExpertRepository,
	logger logger.ILogger,
) *Manager {
	return &Manager{
		productRepository: productRepository,
		expertRepository:  expertRepository,
		logger:            logger,
	}
}

// Resolve builds the feedback outcome for a rating. Every rating gets the
// expert contact so the user can always follow up; the rating only selects
// the acknowledgement template.
func (m *Manager) Resolve(ctx context.Context, rating, language string, productId *uuid.UUID) (*Outcome, error) {
	outcome := &Outcome{
		Template: constant.FeedbackTemplateFor(rating, language),
	}

	expert, err := m.ResolveExpert(ctx, productId)
	if err != nil {
		return nil, err
	}

	outcome.Expert = expert
	outcome.ExpertContact = FormatExpertContact(expert, language)
	return outcome, nil
}

// ResolveExpert finds the handoff contact for a session. A session that
// resolved a product gets that product's expert; anything else falls back
// to the first general expert.
func (m *Manager) ResolveExpert(ctx context.Context, productId *uuid.UUID) (*entity.ExpertContact, error) {
	if productId != nil {
		product, err := m.productRepository.FindOne(ctx, specification.ByID{ID: *productId})
		if err == nil && product != nil {
			expert, err := m.expertRepository.FindOne(ctx, specification.ByID{ID: product.ExpertId})
			if err == nil && expert != nil {
				return expert, nil
			}
		}
		m.logger.Warn("feedback", "product expert lookup failed, falling back to general expert", map[string]interface{}{
			"product_id": productId.String(),
		})
	}

	expert, err := m.expertRepository.FindOne(ctx,
		specification.GeneralExpertsOnly{},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, fmt.Errorf("resolve general expert: %w", err)
	}
	return expert, nil
}

// FormatExpertContact renders the expert block shown to the user on handoff.
func FormatExpertContact(expert *entity.ExpertContact, language string) string {
	if expert == nil {
		if language == constant.LanguageMalay {
			return "Maklumat hubungan pakar tidak tersedia."
		}
		return "Expert contact information not available."
	}

	var sb strings.Builder

	if language == constant.LanguageMalay {
		sb.WriteString("**Maklumat Hubungan Pakar:**\n\n")
		sb.WriteString(fmt.Sprintf("Nama: %s\n", expert.Name))
		if expert.Title != "" {
			sb.WriteString(fmt.Sprintf("Jawatan: %s\n", expert.Title))
		}
		sb.WriteString(fmt.Sprintf("E-mel: %s\n", expert.Email))
		sb.WriteString(fmt.Sprintf("Telefon: %s\n", expert.Phone))
		if len(expert.Specialties) > 0 {
			sb.WriteString(fmt.Sprintf("Kepakaran: %s\n", strings.Join(expert.Specialties, ", ")))
		}
		sb.WriteString("\nSila hubungi pakar kami untuk sokongan teknikal lanjut!")
	} else {
		sb.WriteString("**Expert Contact Information:**\n\n")
		sb.WriteString(fmt.Sprintf("Name: %s\n", expert.Name))
		if expert.Title != "" {
			sb.WriteString(fmt.Sprintf("Title: %s\n", expert.Title))
		}
		sb.WriteString(fmt.Sprintf("Email: %s\n", expert.Email))
		sb.WriteString(fmt.Sprintf("Phone: %s\n", expert.Phone))
		if len(expert.Specialties) > 0 {
			sb.WriteString(fmt.Sprintf("Specialties: %s\n", strings.Join(expert.Specialties, ", ")))
		}
		sb.WriteString("\nFeel free to contact our expert for detailed technical support!")
	}

	return sb.String()
}
