package repository

import "terminal-terrace/academic/internal/query"

var timestamps = []string{"id", "created_at", "updated_at"}

func columns(cols ...string) []string {
	return append(append([]string{}, timestamps...), cols...)
}

var (
	UserDescriptor = &query.Descriptor{
		Table:      "users",
		Columns:    columns("name", "email", "password_hash", "role", "email_verified_at"),
		Fillable:   []string{"name", "email", "password_hash", "role", "email_verified_at"},
		Searchable: []string{"name", "email"},
		Relations: map[string]query.Relation{
			"student": {Field: "Student", Table: "students", Kind: query.HasOne, ForeignKey: "user_id"},
			"teacher": {Field: "Teacher", Table: "teachers", Kind: query.HasOne, ForeignKey: "user_id"},
		},
	}

	StudentDescriptor = &query.Descriptor{
		Table:      "students",
		Columns:    columns("user_id", "first_name", "last_name"),
		Fillable:   []string{"user_id", "first_name", "last_name"},
		Searchable: []string{"first_name", "last_name"},
		Relations: map[string]query.Relation{
			"user":        {Field: "User", Table: "users", Kind: query.BelongsTo, ForeignKey: "user_id"},
			"evaluations": {Field: "Evaluations", Table: "evaluations", Kind: query.HasMany, ForeignKey: "student_id"},
		},
	}

	TeacherDescriptor = &query.Descriptor{
		Table:      "teachers",
		Columns:    columns("user_id", "first_name", "last_name"),
		Fillable:   []string{"user_id", "first_name", "last_name"},
		Searchable: []string{"first_name", "last_name"},
		Relations: map[string]query.Relation{
			"user":        {Field: "User", Table: "users", Kind: query.BelongsTo, ForeignKey: "user_id"},
			"units":       {Field: "Units", Table: "units", Kind: query.HasMany, ForeignKey: "teacher_id"},
			"evaluations": {Field: "Evaluations", Table: "evaluations", Kind: query.HasMany, ForeignKey: "teacher_id"},
		},
	}

	ModuleDescriptor = &query.Descriptor{
		Table:      "modules",
		Columns:    columns("name"),
		Fillable:   []string{"name"},
		Searchable: []string{"name"},
		Relations: map[string]query.Relation{
			"units":       {Field: "Units", Table: "units", Kind: query.HasMany, ForeignKey: "module_id"},
			"evaluations": {Field: "Evaluations", Table: "evaluations", Kind: query.HasMany, ForeignKey: "module_id"},
		},
	}

	UnitDescriptor = &query.Descriptor{
		Table:      "units",
		Columns:    columns("title", "module_id", "teacher_id"),
		Fillable:   []string{"title", "module_id", "teacher_id"},
		Searchable: []string{"title"},
		Relations: map[string]query.Relation{
			"module":      {Field: "Module", Table: "modules", Kind: query.BelongsTo, ForeignKey: "module_id"},
			"teacher":     {Field: "Teacher", Table: "teachers", Kind: query.BelongsTo, ForeignKey: "teacher_id"},
			"evaluations": {Field: "Evaluations", Table: "evaluations", Kind: query.HasMany, ForeignKey: "unit_id"},
		},
	}

	EvaluationDescriptor = &query.Descriptor{
		Table:      "evaluations",
		Columns:    columns("student_id", "teacher_id", "module_id", "unit_id", "score", "comments", "evaluation_date"),
		Fillable:   []string{"student_id", "teacher_id", "module_id", "unit_id", "score", "comments", "evaluation_date"},
		Searchable: []string{"comments"},
		Relations: map[string]query.Relation{
			"student": {Field: "Student", Table: "students", Kind: query.BelongsTo, ForeignKey: "student_id"},
			"teacher": {Field: "Teacher", Table: "teachers", Kind: query.BelongsTo, ForeignKey: "teacher_id"},
			"module":  {Field: "Module", Table: "modules", Kind: query.BelongsTo, ForeignKey: "module_id"},
			"unit":    {Field: "Unit", Table: "units", Kind: query.BelongsTo, ForeignKey: "unit_id"},
		},
	}

	AuthTokenDescriptor = &query.Descriptor{
		Table:    "auth_tokens",
		Columns:  columns("user_id", "token_id", "name", "expires_at", "last_used_at"),
		Fillable: []string{"user_id", "token_id", "name", "expires_at", "last_used_at"},
	}

	// Registry 所有实体描述，用于解析嵌套关联与连接表
	Registry = query.NewRegistry(
		UserDescriptor,
		StudentDescriptor,
		TeacherDescriptor,
		ModuleDescriptor,
		UnitDescriptor,
		EvaluationDescriptor,
		AuthTokenDescriptor,
	)
)
