package feedback

import (
	"context"
	"strings"
	"testing"

	"iot-support-be/internal/constant"
	"iot-support-be/internal/entity"
	"iot-support-be/internal/repository/specification"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
}

func (f *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error { return nil }

func (f *fakeProductRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			return f.products[byId.ID], nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.products)), nil
}

type fakeExpertRepo struct {
	experts map[uuid.UUID]*entity.ExpertContact
	general *entity.ExpertContact
}

func (f *fakeExpertRepo) Create(ctx context.Context, expert *entity.ExpertContact) error { return nil }

func (f *fakeExpertRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ExpertContact, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			return f.experts[s.ID], nil
		case specification.GeneralExpertsOnly:
			return f.general, nil
		}
	}
	return nil, nil
}

func (f *fakeExpertRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ExpertContact, error) {
	var out []*entity.ExpertContact
	for _, e := range f.experts {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeExpertRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.experts)), nil
}

func newTestManager() (*Manager, uuid.UUID, *entity.ExpertContact, *entity.ExpertContact) {
	productExpert := &entity.ExpertContact{
		Id:    uuid.New(),
		Name:  "Lisa Wong",
		Email: "lisa.wong@example.com",
		Phone: "+60123456789",
	}
	generalExpert := &entity.ExpertContact{
		Id:          uuid.New(),
		Name:        "Sarah Johnson",
		Title:       "Senior Technical Lead",
		Email:       "sarah.johnson@example.com",
		Phone:       "+60198765432",
		Specialties: []string{"System Integration", "Troubleshooting"},
		IsGeneral:   true,
	}

	productId := uuid.New()
	products := &fakeProductRepo{products: map[uuid.UUID]*entity.Product{
		productId: {Id: productId, Name: "Smart Thermostat", ExpertId: productExpert.Id},
	}}
	experts := &fakeExpertRepo{
		experts: map[uuid.UUID]*entity.ExpertContact{productExpert.Id: productExpert},
		general: generalExpert,
	}

	return NewManager(products, experts, nopLogger{}), productId, productExpert, generalExpert
}

func TestResolveSatisfiedStillAttachesExpert(t *testing.T) {
	manager, productId, productExpert, _ := newTestManager()

	outcome, err := manager.Resolve(context.Background(), constant.FeedbackRatingSatisfied, constant.LanguageEnglish, &productId)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if outcome.Expert == nil || outcome.Expert.Id != productExpert.Id {
		t.Fatalf("Expert = %v, want product expert on every rating", outcome.Expert)
	}
	if outcome.Template.Title != "Thank you for your feedback!" {
		t.Errorf("Template.Title = %q", outcome.Template.Title)
	}
}

func TestResolveSkippedWithoutProductReturnsGeneralExpert(t *testing.T) {
	manager, _, _, generalExpert := newTestManager()

	// Skipping feedback on a session that never matched a product still
	// hands the user the general expert's contact.
	outcome, err := manager.Resolve(context.Background(), constant.FeedbackRatingSkipped, constant.LanguageEnglish, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if outcome.Expert == nil || outcome.Expert.Id != generalExpert.Id {
		t.Fatalf("Expert = %v, want general expert", outcome.Expert)
	}
	if !strings.Contains(outcome.ExpertContact, generalExpert.Name) {
		t.Errorf("formatted contact missing expert name: %q", outcome.ExpertContact)
	}
}

func TestResolveNotSatisfiedUsesProductExpert(t *testing.T) {
	manager, productId, productExpert, _ := newTestManager()

	outcome, err := manager.Resolve(context.Background(), constant.FeedbackRatingNotSatisfied, constant.LanguageEnglish, &productId)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if outcome.Expert == nil || outcome.Expert.Id != productExpert.Id {
		t.Fatalf("Expert = %v, want product expert", outcome.Expert)
	}
	if !strings.Contains(outcome.ExpertContact, productExpert.Name) {
		t.Errorf("formatted contact missing expert name: %q", outcome.ExpertContact)
	}
}

func TestResolveNotSatisfiedFallsBackToGeneralExpert(t *testing.T) {
	manager, _, _, generalExpert := newTestManager()

	// No product ever matched in this session.
	outcome, err := manager.Resolve(context.Background(), constant.FeedbackRatingNotSatisfied, constant.LanguageEnglish, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if outcome.Expert == nil || outcome.Expert.Id != generalExpert.Id {
		t.Fatalf("Expert = %v, want general expert", outcome.Expert)
	}
	if !strings.Contains(outcome.ExpertContact, "Senior Technical Lead") {
		t.Errorf("formatted contact missing title: %q", outcome.ExpertContact)
	}
}

func TestResolveUnknownProductFallsBackToGeneralExpert(t *testing.T) {
	manager, _, _, generalExpert := newTestManager()

	unknownId := uuid.New()
	outcome, err := manager.Resolve(context.Background(), constant.FeedbackRatingNotSatisfied, constant.LanguageEnglish, &unknownId)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if outcome.Expert == nil || outcome.Expert.Id != generalExpert.Id {
		t.Fatalf("Expert = %v, want general expert fallback", outcome.Expert)
	}
}

func TestResolveLocalizedTemplates(t *testing.T) {
	manager, productId, _, _ := newTestManager()

	outcome, err := manager.Resolve(context.Background(), constant.FeedbackRatingSkipped, constant.LanguageMalay, &productId)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if outcome.Template.Title != "Sesi selesai" {
		t.Errorf("Template.Title = %q, want Malay skip template", outcome.Template.Title)
	}
}

func TestFormatExpertContactMalay(t *testing.T) {
	expert := &entity.ExpertContact{
		Name:  "Sarah Johnson",
		Email: "sarah@example.com",
		Phone: "+60198765432",
	}

	formatted := FormatExpertContact(expert, constant.LanguageMalay)
	if !strings.Contains(formatted, "Maklumat Hubungan Pakar") {
		t.Errorf("formatted contact not localized: %q", formatted)
	}
}
