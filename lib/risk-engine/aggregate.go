package riskengine

import (
	"nr1-risk-backend/models"
	dbmodels "nr1-risk-backend/models/db"
	"time"
)

// Group is a raw aggregate before the anonymity guard decides what can be shown.
type Group struct {
	Key              string
	Mean             float64
	HasData          bool
	ScoredCount      int
	ResponseCount    int
	ParticipantCount int
	QuestionCount    int
}

type accumulator struct {
	sum          float64
	scored       int
	responses    int
	participants map[string]struct{}
	questions    map[string]struct{}
}

func newAccumulator() *accumulator {
	return &accumulator{
		participants: map[string]struct{}{},
		questions:    map[string]struct{}{},
	}
}

func (a *accumulator) add(anonymousID, questionID string, score float64, scored bool) {
	a.responses++
	a.participants[anonymousID] = struct{}{}
	a.questions[questionID] = struct{}{}
	if scored {
		a.sum += score
		a.scored++
	}
}

func (a *accumulator) merge(other *accumulator) {
	a.sum += other.sum
	a.scored += other.scored
	a.responses += other.responses
	for id := range other.participants {
		a.participants[id] = struct{}{}
	}
	for id := range other.questions {
		a.questions[id] = struct{}{}
	}
}

func (a *accumulator) group(key string) Group {
	g := Group{
		Key:              key,
		ScoredCount:      a.scored,
		ResponseCount:    a.responses,
		ParticipantCount: len(a.participants),
		QuestionCount:    len(a.questions),
	}
	if a.scored > 0 {
		g.Mean = Round2(a.sum / float64(a.scored))
		g.HasData = true
	}
	return g
}

// CategoryAggregator folds responses into one group per registry category.
type CategoryAggregator struct {
	registry *models.CategoryRegistry
	groups   map[models.RiskCategory]*accumulator
}

func NewCategoryAggregator(registry *models.CategoryRegistry) *CategoryAggregator {
	a := &CategoryAggregator{
		registry: registry,
		groups:   make(map[models.RiskCategory]*accumulator, registry.Len()),
	}
	for _, item := range registry.List() {
		a.groups[item.Category] = newAccumulator()
	}
	return a
}

// Add ignores responses whose question belongs to a category missing from the registry.
func (a *CategoryAggregator) Add(response dbmodels.Response, question dbmodels.Question) {
	acc, ok := a.groups[question.Category]
	if !ok {
		return
	}
	score, scored := Normalize(question, response.Value)
	acc.add(response.AnonymousID, question.ID, score, scored)
}

func (a *CategoryAggregator) Merge(other *CategoryAggregator) {
	for category, acc := range other.groups {
		own, ok := a.groups[category]
		if !ok {
			continue
		}
		own.merge(acc)
	}
}

// Groups returns the aggregates in registry order, including empty categories.
func (a *CategoryAggregator) Groups() []Group {
	result := make([]Group, 0, len(a.groups))
	for _, item := range a.registry.List() {
		result = append(result, a.groups[item.Category].group(string(item.Category)))
	}
	return result
}

// DepartmentAggregator folds responses by the department of their participant.
type DepartmentAggregator struct {
	participantDepartment map[string]string
	groups                map[string]*accumulator
}

func NewDepartmentAggregator(relation []dbmodels.ParticipantDepartment) *DepartmentAggregator {
	a := &DepartmentAggregator{
		participantDepartment: make(map[string]string, len(relation)),
		groups:                map[string]*accumulator{},
	}
	for _, link := range relation {
		if link.AnonymousID == "" || link.DepartmentID == "" {
			continue
		}
		a.participantDepartment[link.AnonymousID] = link.DepartmentID
	}
	return a
}

// Add drops responses whose participant has no resolved department.
func (a *DepartmentAggregator) Add(response dbmodels.Response, question dbmodels.Question) {
	departmentID, ok := a.participantDepartment[response.AnonymousID]
	if !ok {
		return
	}
	acc, ok := a.groups[departmentID]
	if !ok {
		acc = newAccumulator()
		a.groups[departmentID] = acc
	}
	score, scored := Normalize(question, response.Value)
	acc.add(response.AnonymousID, question.ID, score, scored)
}

func (a *DepartmentAggregator) Group(departmentID string) Group {
	acc, ok := a.groups[departmentID]
	if !ok {
		return Group{Key: departmentID}
	}
	return acc.group(departmentID)
}

// QuestionAggregator keeps the literal value histogram and score of every question.
type QuestionAggregator struct {
	scores        map[string]*accumulator
	distributions map[string]*Distribution
}

func NewQuestionAggregator() *QuestionAggregator {
	return &QuestionAggregator{
		scores:        map[string]*accumulator{},
		distributions: map[string]*Distribution{},
	}
}

func (a *QuestionAggregator) Add(response dbmodels.Response, question dbmodels.Question) {
	acc, ok := a.scores[question.ID]
	if !ok {
		acc = newAccumulator()
		a.scores[question.ID] = acc
		a.distributions[question.ID] = NewDistribution()
	}
	score, scored := Normalize(question, response.Value)
	acc.add(response.AnonymousID, question.ID, score, scored)
	a.distributions[question.ID].Add(response.Value)
}

func (a *QuestionAggregator) Group(questionID string) Group {
	acc, ok := a.scores[questionID]
	if !ok {
		return Group{Key: questionID}
	}
	return acc.group(questionID)
}

func (a *QuestionAggregator) Distribution(questionID string) *Distribution {
	if d, ok := a.distributions[questionID]; ok {
		return d
	}
	return NewDistribution()
}

// Totals tracks assessment-wide participation.
type Totals struct {
	participants map[string]struct{}
	responses    int
	lastResponse time.Time
}

func NewTotals() *Totals {
	return &Totals{participants: map[string]struct{}{}}
}

func (t *Totals) Add(response dbmodels.Response) {
	t.responses++
	t.participants[response.AnonymousID] = struct{}{}
	if response.CreatedAt.After(t.lastResponse) {
		t.lastResponse = response.CreatedAt
	}
}

func (t *Totals) Participants() int {
	return len(t.participants)
}

func (t *Totals) Responses() int {
	return t.responses
}

func (t *Totals) LastResponse() *time.Time {
	if t.lastResponse.IsZero() {
		return nil
	}
	last := t.lastResponse
	return &last
}

// CompletionRate is the share of expected answers received, in percent.
func (t *Totals) CompletionRate(totalQuestions int) float64 {
	expected := t.Participants() * totalQuestions
	if expected == 0 {
		return 0
	}
	rate := float64(t.responses) / float64(expected) * 100
	if rate > 100 {
		rate = 100
	}
	return Round2(rate)
}
