package analytics

import (
	"context"
	riskengine "nr1-risk-backend/lib/risk-engine"
	dbmodels "nr1-risk-backend/models/db"

	"golang.org/x/sync/errgroup"
)

type loadOptions struct {
	withDepartments bool
	// questionID must belong to the assessment when set.
	questionID string
	// keep decides which literal responses are retained for export paths.
	keep func(question dbmodels.Question) bool
}

// snapshot is everything one request computed from the raw rows of an assessment.
type snapshot struct {
	assessment   dbmodels.Assessment
	questions    []dbmodels.Question
	questionByID map[string]dbmodels.Question
	totals       *riskengine.Totals
	categories   *riskengine.CategoryAggregator
	perQuestion  *riskengine.QuestionAggregator

	departmentList []dbmodels.Department
	headcount      map[string]int
	departments    *riskengine.DepartmentAggregator

	kept []dbmodels.Response
}

func (i impl) load(ctx context.Context, orgID, assessmentID string, opts loadOptions) (*snapshot, error) {
	rec, err := i.assessmentStore.GetByID(ctx, orgID, assessmentID)
	if err != nil {
		return nil, unavailable(err, "erro ao obter avaliação")
	}
	if rec == nil {
		return nil, notFound("avaliação não encontrada")
	}
	snap := &snapshot{
		assessment: *rec,
		totals:     riskengine.NewTotals(),
		categories: riskengine.NewCategoryAggregator(i.registry),
		headcount:  map[string]int{},
	}

	var relation []dbmodels.ParticipantDepartment
	var headcount []dbmodels.DepartmentHeadcount
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.questions, err = i.assessmentStore.ListQuestions(gctx, assessmentID)
		return err
	})
	if opts.withDepartments {
		g.Go(func() (err error) {
			snap.departmentList, err = i.departmentStore.ListByOrganization(gctx, orgID)
			return err
		})
		g.Go(func() (err error) {
			headcount, err = i.departmentStore.EmployeeCounts(gctx, orgID)
			return err
		})
		g.Go(func() (err error) {
			relation, err = i.departmentStore.ParticipantDepartments(gctx, orgID, assessmentID)
			return err
		})
	}
	if err = g.Wait(); err != nil {
		return nil, unavailable(err, "erro ao obter dados da avaliação")
	}

	snap.questionByID = make(map[string]dbmodels.Question, len(snap.questions))
	for _, q := range snap.questions {
		snap.questionByID[q.ID] = q
	}
	if opts.questionID != "" {
		if _, ok := snap.questionByID[opts.questionID]; !ok {
			return nil, notFound("pergunta não encontrada")
		}
	}
	for _, h := range headcount {
		snap.headcount[h.DepartmentID] = h.EmployeeCount
	}
	snap.perQuestion = riskengine.NewQuestionAggregator()
	if opts.withDepartments {
		snap.departments = riskengine.NewDepartmentAggregator(relation)
	}

	err = riskengine.FoldResponses(ctx, i.responseStore, assessmentID, i.pageSize, func(response dbmodels.Response) {
		question, ok := snap.questionByID[response.QuestionID]
		if !ok {
			return
		}
		snap.totals.Add(response)
		snap.categories.Add(response, question)
		snap.perQuestion.Add(response, question)
		if snap.departments != nil {
			snap.departments.Add(response, question)
		}
		if opts.keep != nil && opts.keep(question) {
			snap.kept = append(snap.kept, response)
		}
	})
	if err != nil {
		return nil, unavailable(err, "erro ao ler respostas")
	}
	return snap, nil
}
