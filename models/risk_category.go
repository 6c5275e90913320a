package models

type RiskCategory string

const (
	CategoryDemandsAndPace             RiskCategory = "demands_and_pace"
	CategoryAutonomyClarityChange      RiskCategory = "autonomy_clarity_change"
	CategoryLeadershipRecognition      RiskCategory = "leadership_recognition"
	CategoryRelationshipsCommunication RiskCategory = "relationships_communication"
	CategoryWorkLifeHealth             RiskCategory = "work_life_health"
	CategoryViolenceHarassment         RiskCategory = "violence_harassment"
	CategoryAnchors                    RiskCategory = "anchors"
	CategorySuggestions                RiskCategory = "suggestions"
)

type CategoryInfo struct {
	Category RiskCategory
	Label    string
	// Qualitative categories collect free text and never carry a score.
	Qualitative bool
}

// CategoryRegistry is the ordered list of categories reported for every assessment.
type CategoryRegistry struct {
	items []CategoryInfo
	index map[RiskCategory]int
}

func NewCategoryRegistry(items ...CategoryInfo) *CategoryRegistry {
	r := &CategoryRegistry{
		items: make([]CategoryInfo, 0, len(items)),
		index: make(map[RiskCategory]int, len(items)),
	}
	for _, item := range items {
		if _, exist := r.index[item.Category]; exist {
			continue
		}
		r.index[item.Category] = len(r.items)
		r.items = append(r.items, item)
	}
	return r
}

func DefaultCategoryRegistry() *CategoryRegistry {
	return NewCategoryRegistry(
		CategoryInfo{Category: CategoryDemandsAndPace, Label: "Demandas e Ritmo de Trabalho"},
		CategoryInfo{Category: CategoryAutonomyClarityChange, Label: "Autonomia, Clareza e Mudanças"},
		CategoryInfo{Category: CategoryLeadershipRecognition, Label: "Liderança e Reconhecimento"},
		CategoryInfo{Category: CategoryRelationshipsCommunication, Label: "Relações e Comunicação"},
		CategoryInfo{Category: CategoryWorkLifeHealth, Label: "Equilíbrio Vida-Trabalho e Saúde"},
		CategoryInfo{Category: CategoryViolenceHarassment, Label: "Violência e Assédio"},
		CategoryInfo{Category: CategoryAnchors, Label: "Âncoras"},
		CategoryInfo{Category: CategorySuggestions, Label: "Sugestões", Qualitative: true},
	)
}

func (r *CategoryRegistry) List() []CategoryInfo {
	result := make([]CategoryInfo, len(r.items))
	copy(result, r.items)
	return result
}

func (r *CategoryRegistry) Get(category RiskCategory) (CategoryInfo, bool) {
	idx, ok := r.index[category]
	if !ok {
		return CategoryInfo{}, false
	}
	return r.items[idx], true
}

func (r *CategoryRegistry) Label(category RiskCategory) string {
	if info, ok := r.Get(category); ok {
		return info.Label
	}
	return string(category)
}

func (r *CategoryRegistry) Len() int {
	return len(r.items)
}
