package report

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/schoolcare/infirmary-api/internal/model"
	"github.com/schoolcare/infirmary-api/internal/repository"
	apperrors "github.com/schoolcare/infirmary-api/pkg/errors"
)

// Service answers the report feed and the dashboard aggregations. It is
// stateless; every call reads current stored state.
type Service struct {
	repo       repository.AppointmentRepository
	categories []string
	now        func() time.Time
}

func NewService(repo repository.AppointmentRepository, chartCategories []string) *Service {
	return &Service{
		repo:       repo,
		categories: chartCategories,
		now:        time.Now,
	}
}

// SearchAll runs the three per-type queries with identical filters, maps
// every row into the common report shape and returns the merged feed
// sorted by visit date, newest first.
func (s *Service) SearchAll(ctx context.Context, f model.AppointmentFilter) ([]model.ReportRow, error) {
	if f.From.IsZero() || f.To.IsZero() {
		return nil, apperrors.BadRequest("date_begin and date_end are required")
	}
	if len(f.Infirmaries) == 0 {
		return nil, apperrors.BadRequest("at least one infirmary is required")
	}
	f.To = endOfDayIfMidnight(f.To)

	students, err := s.repo.SearchStudents(ctx, f)
	if err != nil {
		return nil, err
	}
	employees, err := s.repo.SearchEmployees(ctx, f)
	if err != nil {
		return nil, err
	}
	visitors, err := s.repo.SearchVisitors(ctx, f)
	if err != nil {
		return nil, err
	}

	feed := make([]model.ReportRow, 0, len(students)+len(employees)+len(visitors))
	for _, r := range students {
		feed = append(feed, studentRow(r))
	}
	for _, r := range employees {
		feed = append(feed, employeeRow(r))
	}
	for _, r := range visitors {
		feed = append(feed, visitorRow(r))
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Date.After(feed[j].Date)
	})
	return feed, nil
}

// endOfDayIfMidnight widens a bare date to the last instant of that day
// so the range stays inclusive when callers send dates without a clock.
func endOfDayIfMidnight(t time.Time) time.Time {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Add(24*time.Hour - time.Nanosecond)
	}
	return t
}

func studentRow(r model.StudentAppointmentRow) model.ReportRow {
	class := r.CurrentClass
	if class == "" && r.ClassGroupName != nil {
		class = *r.ClassGroupName
	}
	return model.ReportRow{
		Type:           model.PersonTypeStudent,
		Name:           r.StudentName,
		ExtraLabel:     "class",
		ExtraValue:     class,
		Age:            r.StudentAge,
		Gender:         r.StudentGender,
		Date:           r.Date,
		Reason:         r.Reason,
		Treatment:      r.Treatment,
		Notes:          r.Notes,
		Infirmary:      r.Infirmary,
		Nurse:          r.Nurse,
		Revaluation:    r.Revaluation,
		ContactParents: r.ContactParents,
	}
}

func employeeRow(r model.EmployeeAppointmentRow) model.ReportRow {
	department := ""
	if r.DepartmentName != nil {
		department = *r.DepartmentName
	}
	return model.ReportRow{
		Type:        model.PersonTypeEmployee,
		Name:        r.EmployeeName,
		ExtraLabel:  "department",
		ExtraValue:  department,
		Age:         r.EmployeeAge,
		Gender:      r.EmployeeGender,
		Date:        r.Date,
		Reason:      r.Reason,
		Treatment:   r.Treatment,
		Notes:       r.Notes,
		Infirmary:   r.Infirmary,
		Nurse:       r.Nurse,
		Revaluation: r.Revaluation,
	}
}

func visitorRow(r model.VisitorAppointmentRow) model.ReportRow {
	return model.ReportRow{
		Type:        model.PersonTypeVisitor,
		Name:        r.VisitorName,
		ExtraLabel:  "relationship",
		ExtraValue:  r.Relationship,
		Age:         r.VisitorAge,
		Gender:      r.VisitorGender,
		Date:        r.Date,
		Reason:      r.Reason,
		Treatment:   r.Treatment,
		Notes:       r.Notes,
		Infirmary:   r.Infirmary,
		Nurse:       r.Nurse,
		Revaluation: r.Revaluation,
	}
}

// StudentHistory returns a student's visits, newest first; an empty id or
// zero matches come back as an empty slice, never an error.
func (s *Service) StudentHistory(ctx context.Context, studentID string, onDate *time.Time) ([]model.StudentAppointment, error) {
	return s.repo.StudentHistory(ctx, studentID, onDate)
}

func (s *Service) EmployeeHistory(ctx context.Context, employeeID string, onDate *time.Time) ([]model.EmployeeAppointment, error) {
	return s.repo.EmployeeHistory(ctx, employeeID, onDate)
}

func (s *Service) VisitorHistory(ctx context.Context, visitorID string, onDate *time.Time) ([]model.VisitorAppointment, error) {
	return s.repo.VisitorHistory(ctx, visitorID, onDate)
}

func (s *Service) yearRange() (time.Time, time.Time) {
	now := s.now()
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	to := time.Date(now.Year(), time.December, 31, 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	return from, to
}

func (s *Service) dayRange() (time.Time, time.Time) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return from, from.Add(24*time.Hour - time.Nanosecond)
}

func (s *Service) countAll(ctx context.Context, from, to time.Time, infirmary string) (int, error) {
	total := 0
	for _, table := range repository.AppointmentTables() {
		n, err := s.repo.Count(ctx, table, from, to, infirmary)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// Summary computes the dashboard counters: visits this calendar year and
// today, each the sum of the three per-type counts. When an infirmary
// name is given (matched case-insensitively after trimming) the scoped
// counters are filled as well; when it is blank they stay zero.
func (s *Service) Summary(ctx context.Context, infirmary string) (*model.DashboardSummary, error) {
	yearFrom, yearTo := s.yearRange()
	dayFrom, dayTo := s.dayRange()

	summary := &model.DashboardSummary{}
	var err error
	if summary.YearTotal, err = s.countAll(ctx, yearFrom, yearTo, ""); err != nil {
		return nil, err
	}
	if summary.TodayTotal, err = s.countAll(ctx, dayFrom, dayTo, ""); err != nil {
		return nil, err
	}

	infirmary = strings.TrimSpace(infirmary)
	if infirmary == "" {
		return summary, nil
	}
	summary.Infirmary = infirmary
	if summary.InfirmaryYear, err = s.countAll(ctx, yearFrom, yearTo, infirmary); err != nil {
		return nil, err
	}
	if summary.InfirmaryToday, err = s.countAll(ctx, dayFrom, dayTo, infirmary); err != nil {
		return nil, err
	}
	return summary, nil
}

// NurseCounts tallies this year's visits by the denormalized nurse name.
// The tally is done in memory over the three loaded sets; at infirmary
// volumes that is fine, and it keeps the output shape independent of the
// storage engine.
func (s *Service) NurseCounts(ctx context.Context) ([]model.NurseCount, error) {
	from, to := s.yearRange()

	tally := make(map[string]int)
	for _, table := range repository.AppointmentTables() {
		nurses, err := s.repo.NurseVisits(ctx, table, from, to)
		if err != nil {
			return nil, err
		}
		for _, nurse := range nurses {
			tally[nurse]++
		}
	}

	counts := make([]model.NurseCount, 0, len(tally))
	for nurse, count := range tally {
		counts = append(counts, model.NurseCount{Nurse: nurse, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Nurse < counts[j].Nurse
	})
	return counts, nil
}

// ChartData buckets this year's visit counts into the configured
// infirmary categories for the dashboard chart. Visits recorded under an
// infirmary name matching no category are folded into the last bucket so
// every visit stays visible.
func (s *Service) ChartData(ctx context.Context) (*model.ChartData, error) {
	from, to := s.yearRange()

	data := &model.ChartData{
		Labels: make([]string, 0, len(s.categories)),
		Counts: make([]int, 0, len(s.categories)),
	}
	if len(s.categories) == 0 {
		return data, nil
	}

	matched := 0
	for _, category := range s.categories {
		n, err := s.countAll(ctx, from, to, category)
		if err != nil {
			return nil, err
		}
		matched += n
		data.Labels = append(data.Labels, category)
		data.Counts = append(data.Counts, n)
	}

	total, err := s.countAll(ctx, from, to, "")
	if err != nil {
		return nil, err
	}
	if rest := total - matched; rest > 0 {
		data.Counts[len(data.Counts)-1] += rest
	}
	return data, nil
}
