package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/parent"
	"github.com/trezcool/wazazi/core/student"
)

type parentRepository struct {
	db *DB
}

var _ parent.Repository = (*parentRepository)(nil) // interface compliance check

func NewParentRepository(db *DB) *parentRepository {
	return &parentRepository{db: db}
}

func (repo *parentRepository) CreateParent(_ context.Context, p parent.Parent, exec ...core.DBExecutor) (parent.Parent, error) {
	defer repo.db.lockWrite(exec)()

	p.ID = repo.db.nextPK()
	repo.db.parent[p.ID] = p
	return p, nil
}

func (repo *parentRepository) GetParent(_ context.Context, id int64, _ ...core.DBExecutor) (parent.Parent, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if p, ok := repo.db.parent[id]; ok {
		return p, nil
	}
	return parent.Parent{}, parent.ErrNotFound
}

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(_ context.Context, stu student.Student, exec ...core.DBExecutor) (student.Student, error) {
	defer repo.db.lockWrite(exec)()

	if _, ok := repo.db.parent[stu.ParentID]; !ok {
		return student.Student{}, parent.ErrNotFound
	}
	for _, s := range repo.db.student {
		if s.StudentID == stu.StudentID {
			return student.Student{}, student.ErrStudentIDExists
		}
	}

	stu.ID = repo.db.nextPK()
	repo.db.student[stu.ID] = stu
	return stu, nil
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter student.QueryFilter, _ ...core.DBExecutor) ([]student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	students := make([]student.Student, 0)
	for _, s := range repo.db.student {
		if (filter.ParentID == 0 || s.ParentID == filter.ParentID) && (filter.Status == "" || s.Status == filter.Status) {
			students = append(students, s)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, filter student.GetFilter, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	s, ok := repo.db.student[filter.ID]
	if !ok || (filter.ParentID != 0 && s.ParentID != filter.ParentID) || (filter.Status != "" && s.Status != filter.Status) {
		return student.Student{}, student.ErrNotFound
	}
	return s, nil
}

func (repo *studentRepository) UpsertSubject(_ context.Context, sub student.Subject, exec ...core.DBExecutor) (student.Subject, error) {
	defer repo.db.lockWrite(exec)()

	for id, s := range repo.db.subject {
		if s.Code == sub.Code {
			s.Name = sub.Name
			s.Description = sub.Description
			s.UpdatedAt = sub.UpdatedAt
			repo.db.subject[id] = s
			return s, nil
		}
	}
	sub.ID = repo.db.nextPK()
	repo.db.subject[sub.ID] = sub
	return sub, nil
}

func (repo *studentRepository) GetSubject(_ context.Context, code string, _ ...core.DBExecutor) (student.Subject, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, s := range repo.db.subject {
		if s.Code == code {
			return s, nil
		}
	}
	return student.Subject{}, student.ErrSubjectNotFound
}

func (repo *studentRepository) UpsertGrade(_ context.Context, g student.Grade, exec ...core.DBExecutor) (student.Grade, error) {
	defer repo.db.lockWrite(exec)()

	if sub, ok := repo.db.subject[g.SubjectID]; ok {
		g.SubjectName = sub.Name
	}
	for id, old := range repo.db.grade {
		if old.StudentID == g.StudentID && old.SubjectID == g.SubjectID && old.ExamName == g.ExamName {
			g.ID = id
			g.CreatedAt = old.CreatedAt
			repo.db.grade[id] = g
			return g, nil
		}
	}
	g.ID = repo.db.nextPK()
	repo.db.grade[g.ID] = g
	return g, nil
}

func (repo *studentRepository) QueryLatestGrades(_ context.Context, studentID int64, _ ...core.DBExecutor) ([]student.Grade, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	latest := make(map[int64]student.Grade)
	for _, g := range repo.db.grade {
		if g.StudentID != studentID {
			continue
		}
		cur, ok := latest[g.SubjectID]
		if !ok || g.ExamDate.After(cur.ExamDate) || (g.ExamDate.Equal(cur.ExamDate) && g.ID > cur.ID) {
			g.SubjectName = repo.db.subject[g.SubjectID].Name
			latest[g.SubjectID] = g
		}
	}

	grades := make([]student.Grade, 0, len(latest))
	for _, g := range latest {
		grades = append(grades, g)
	}
	sort.Slice(grades, func(i, j int) bool {
		if grades[i].SubjectName == grades[j].SubjectName {
			return grades[i].SubjectID < grades[j].SubjectID
		}
		return grades[i].SubjectName < grades[j].SubjectName
	})
	return grades, nil
}
