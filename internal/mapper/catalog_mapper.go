package mapper

import (
	"encoding/json"

	"iot-support-be/internal/entity"
	"iot-support-be/internal/model"

	"gorm.io/datatypes"
)

type CatalogMapper struct{}

func NewCatalogMapper() *CatalogMapper {
	return &CatalogMapper{}
}

func (m *CatalogMapper) ProductToEntity(p *model.Product) *entity.Product {
	if p == nil {
		return nil
	}

	var keywords []string
	if len(p.Keywords) > 0 {
		// Malformed rows degrade to an empty keyword list rather than failing reads.
		_ = json.Unmarshal(p.Keywords, &keywords)
	}

	return &entity.Product{
		Id:          p.Id,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		CorpusId:    p.CorpusId,
		Keywords:    keywords,
		ExpertId:    p.ExpertId,
		Position:    p.Position,
		CreatedAt:   p.CreatedAt,
	}
}

func (m *CatalogMapper) ProductToModel(p *entity.Product) *model.Product {
	if p == nil {
		return nil
	}

	keywords, _ := json.Marshal(p.Keywords)

	return &model.Product{
		Id:          p.Id,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		CorpusId:    p.CorpusId,
		Keywords:    datatypes.JSON(keywords),
		ExpertId:    p.ExpertId,
		Position:    p.Position,
		CreatedAt:   p.CreatedAt,
	}
}

func (m *CatalogMapper) ExpertToEntity(e *model.ExpertContact) *entity.ExpertContact {
	if e == nil {
		return nil
	}

	var specialties []string
	if len(e.Specialties) > 0 {
		_ = json.Unmarshal(e.Specialties, &specialties)
	}

	return &entity.ExpertContact{
		Id:          e.Id,
		Name:        e.Name,
		Title:       e.Title,
		Email:       e.Email,
		Phone:       e.Phone,
		Specialties: specialties,
		IsGeneral:   e.IsGeneral,
		CreatedAt:   e.CreatedAt,
	}
}

func (m *CatalogMapper) ExpertToModel(e *entity.ExpertContact) *model.ExpertContact {
	if e == nil {
		return nil
	}

	specialties, _ := json.Marshal(e.Specialties)

	return &model.ExpertContact{
		Id:          e.Id,
		Name:        e.Name,
		Title:       e.Title,
		Email:       e.Email,
		Phone:       e.Phone,
		Specialties: datatypes.JSON(specialties),
		IsGeneral:   e.IsGeneral,
		CreatedAt:   e.CreatedAt,
	}
}
