package query

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"terminal-terrace/academic/pkg/database"
)

type Author struct {
	ID    uint
	Name  string
	Books []Book `gorm:"foreignKey:AuthorID"`

	BooksCount *int64 `gorm:"->;-:migration"`
}

func (Author) TableName() string { return "authors" }

type Book struct {
	ID       uint
	Title    string
	Genre    string
	Pages    int
	AuthorID uint
	Author   *Author `gorm:"foreignKey:AuthorID"`
}

func (Book) TableName() string { return "books" }

var (
	authorDesc = &Descriptor{
		Table:      "authors",
		Columns:    []string{"id", "name"},
		Searchable: []string{"name"},
		Relations: map[string]Relation{
			"books": {Field: "Books", Table: "books", Kind: HasMany, ForeignKey: "author_id"},
		},
	}
	bookDesc = &Descriptor{
		Table:      "books",
		Columns:    []string{"id", "title", "genre", "pages", "author_id"},
		Searchable: []string{"title"},
		Relations: map[string]Relation{
			"author": {Field: "Author", Table: "authors", Kind: BelongsTo, ForeignKey: "author_id"},
		},
	}
	_ = NewRegistry(authorDesc, bookDesc)
)

type fixture struct {
	db      *gorm.DB
	authors []Author
	books   []Book
}

// setup 两位作者，23 本书，genre 按 a/b/c 轮换
func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.InitSQLite(&database.SQLiteConfig{Name: uuid.NewString(), LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	require.NoError(t, db.AutoMigrate(&Author{}, &Book{}))

	f := &fixture{db: db}
	for _, name := range []string{"Zed", "Amy"} {
		a := Author{Name: name}
		require.NoError(t, db.Create(&a).Error)
		f.authors = append(f.authors, a)
	}
	genres := []string{"a", "b", "c"}
	for i := 0; i < 23; i++ {
		b := Book{
			Title:    fmt.Sprintf("Book %02d", i),
			Genre:    genres[i%3],
			Pages:    100 + i,
			AuthorID: f.authors[i%2].ID,
		}
		require.NoError(t, db.Create(&b).Error)
		f.books = append(f.books, b)
	}
	return f
}

func (f *fixture) compose(t *testing.T, d *Descriptor, model any, spec Spec) (*Query, error) {
	t.Helper()
	rows := f.db.Model(model).Session(&gorm.Session{})
	count := f.db.Model(model).Session(&gorm.Session{})
	return Compose(rows, count, d, spec)
}

func ids(books []Book) []uint {
	out := make([]uint, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func TestCompose_FilterComposition(t *testing.T) {
	f := setup(t)

	expect := func(pred func(Book) bool) []uint {
		var out []uint
		for _, b := range f.books {
			if pred(b) {
				out = append(out, b.ID)
			}
		}
		return out
	}

	tests := []struct {
		name    string
		filters Filters
		want    []uint
	}{
		{"空过滤条件返回全部", Filters{}, expect(func(Book) bool { return true })},
		{"相等匹配", Filters{"genre": "a"}, expect(func(b Book) bool { return b.Genre == "a" })},
		{"集合匹配", Filters{"genre": []string{"a", "c"}}, expect(func(b Book) bool { return b.Genre != "b" })},
		{"多个条件取交集", Filters{"genre": "b", "author_id": f.authors[0].ID}, expect(func(b Book) bool {
			return b.Genre == "b" && b.AuthorID == f.authors[0].ID
		})},
		{"空集合不匹配任何行", Filters{"genre": []string{}}, nil},
		{"带表前缀的列", Filters{"books.pages": []int{100, 101, 102}}, expect(func(b Book) bool { return b.Pages <= 102 })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := f.compose(t, bookDesc, &Book{}, Spec{
				Filters: tt.filters,
				Orders:  []Order{{Column: "id", Direction: Asc}},
			})
			require.NoError(t, err)

			var got []Book
			require.NoError(t, q.DB().Find(&got).Error)
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func TestPaginate_RoundTrip(t *testing.T) {
	f := setup(t)
	spec := Spec{
		Filters: Filters{"genre": []string{"a", "b"}},
		Orders:  []Order{{Column: "pages", Direction: Desc}},
	}

	var expected []uint
	for i := len(f.books) - 1; i >= 0; i-- {
		if f.books[i].Genre != "c" {
			expected = append(expected, f.books[i].ID)
		}
	}

	var collected []uint
	page := 1
	for {
		q, err := f.compose(t, bookDesc, &Book{}, spec)
		require.NoError(t, err)
		result, err := Paginate[Book](q, Pagination{Page: page, PerPage: 4})
		require.NoError(t, err)

		assert.Equal(t, int64(len(expected)), result.Meta.Total)
		collected = append(collected, ids(result.Items)...)
		if page >= result.Meta.LastPage {
			assert.False(t, result.Meta.HasMore)
			break
		}
		assert.True(t, result.Meta.HasMore)
		page++
	}

	assert.Equal(t, expected, collected)
	assert.Equal(t, 4, page)
}

func TestPaginate_Simple(t *testing.T) {
	f := setup(t)
	spec := Spec{Orders: []Order{{Column: "id"}}}

	q, err := f.compose(t, bookDesc, &Book{}, spec)
	require.NoError(t, err)
	first, err := Paginate[Book](q, Pagination{Page: 1, PerPage: 10, Simple: true})
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)
	assert.True(t, first.Meta.HasMore)
	assert.Zero(t, first.Meta.Total)

	q, err = f.compose(t, bookDesc, &Book{}, spec)
	require.NoError(t, err)
	last, err := Paginate[Book](q, Pagination{Page: 3, PerPage: 10, Simple: true})
	require.NoError(t, err)
	assert.Len(t, last.Items, 3)
	assert.False(t, last.Meta.HasMore)

	raw, err := json.Marshal(last)
	require.NoError(t, err)
	var decoded struct {
		Data       []map[string]any `json:"data"`
		Pagination map[string]any   `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Len(t, decoded.Data, 3)
	meta := decoded.Pagination
	require.NotNil(t, meta)
	assert.Contains(t, meta, "next_page")
	assert.Equal(t, float64(21), meta["from"])
	assert.Equal(t, float64(23), meta["to"])
	assert.Nil(t, meta["next_page"])
	assert.Equal(t, float64(2), meta["prev_page"])
	assert.NotContains(t, meta, "total")
	assert.NotContains(t, meta, "last_page")
}

func TestPaginate_LengthAwareJSON(t *testing.T) {
	f := setup(t)
	q, err := f.compose(t, bookDesc, &Book{}, Spec{Filters: Filters{"genre": "zzz"}})
	require.NoError(t, err)
	page, err := Paginate[Book](q, Pagination{})
	require.NoError(t, err)

	raw, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"pagination":{"from":null,"to":null,"per_page":15,"current_page":1,"last_page":1,"total":0}}`, string(raw))
}

func TestPaginate_Limit(t *testing.T) {
	f := setup(t)
	spec := Spec{
		Orders:     []Order{{Column: "id"}},
		Pagination: Pagination{Limit: 7},
	}

	q, err := f.compose(t, bookDesc, &Book{}, spec)
	require.NoError(t, err)
	page, err := Paginate[Book](q, Pagination{Page: 2, PerPage: 5, Limit: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(7), page.Meta.Total)
	assert.Equal(t, 2, page.Meta.LastPage)
	assert.Equal(t, []uint{f.books[5].ID, f.books[6].ID}, ids(page.Items))

	// 直接取 builder 时同样受 Limit 约束
	q, err = f.compose(t, bookDesc, &Book{}, spec)
	require.NoError(t, err)
	var all []Book
	require.NoError(t, q.DB().Find(&all).Error)
	assert.Len(t, all, 7)
}

func TestCompose_RelationsAndCounts(t *testing.T) {
	f := setup(t)

	q, err := f.compose(t, authorDesc, &Author{}, Spec{
		WithCount: []string{"books"},
		Orders:    []Order{{Column: "id"}},
	})
	require.NoError(t, err)
	var authors []Author
	require.NoError(t, q.DB().Find(&authors).Error)
	require.Len(t, authors, 2)
	require.NotNil(t, authors[0].BooksCount)
	assert.Equal(t, int64(12), *authors[0].BooksCount)
	assert.Equal(t, int64(11), *authors[1].BooksCount)
	assert.Empty(t, authors[0].Books, "计数不应预加载关联")

	q, err = f.compose(t, bookDesc, &Book{}, Spec{
		With:    []string{"author.books"},
		Filters: Filters{"id": f.books[0].ID},
	})
	require.NoError(t, err)
	var books []Book
	require.NoError(t, q.DB().Find(&books).Error)
	require.Len(t, books, 1)
	require.NotNil(t, books[0].Author)
	assert.Equal(t, "Zed", books[0].Author.Name)
	assert.Len(t, books[0].Author.Books, 12)
}

func TestCompose_Joins(t *testing.T) {
	f := setup(t)

	// 按作者名排序：Amy 的书排在 Zed 之前
	q, err := f.compose(t, bookDesc, &Book{}, Spec{
		OrderByRelation: []RelationOrder{{
			Join:   Join{Table: "authors", First: "authors.id", Operator: "=", Second: "books.author_id"},
			Orders: []Order{{Column: "authors.name", Direction: Asc}, {Column: "books.id", Direction: Asc}},
		}},
	})
	require.NoError(t, err)
	page, err := Paginate[Book](q, Pagination{PerPage: 30})
	require.NoError(t, err)
	require.Len(t, page.Items, 23)
	assert.Equal(t, f.authors[1].ID, page.Items[0].AuthorID)
	assert.Equal(t, f.authors[0].ID, page.Items[22].AuthorID)
	assert.Equal(t, int64(23), page.Meta.Total)

	// 左连接后按连接表的列过滤
	q, err = f.compose(t, bookDesc, &Book{}, Spec{
		Join:    &Join{Type: LeftJoin, Table: "authors", First: "authors.id", Operator: "=", Second: "books.author_id"},
		Filters: Filters{"authors.name": "Amy"},
	})
	require.NoError(t, err)
	var books []Book
	require.NoError(t, q.DB().Find(&books).Error)
	assert.Len(t, books, 11)
	for _, b := range books {
		assert.Equal(t, f.authors[1].ID, b.AuthorID)
	}
}

func TestQuery_PostFiltersKeepCountConsistent(t *testing.T) {
	f := setup(t)
	q, err := f.compose(t, bookDesc, &Book{}, Spec{Filters: Filters{"genre": "a"}})
	require.NoError(t, err)

	q.Where("books.author_id = ?", f.authors[0].ID)
	page, err := Paginate[Book](q, Pagination{PerPage: 2})
	require.NoError(t, err)

	var want int64
	for _, b := range f.books {
		if b.Genre == "a" && b.AuthorID == f.authors[0].ID {
			want++
		}
	}
	assert.Equal(t, want, page.Meta.Total)
	assert.Len(t, page.Items, 2)
}

func TestCompose_Search(t *testing.T) {
	f := setup(t)
	q, err := f.compose(t, bookDesc, &Book{}, Spec{Search: "book 1"})
	require.NoError(t, err)
	var books []Book
	require.NoError(t, q.DB().Find(&books).Error)
	assert.Len(t, books, 10)
}

func TestCompose_ValidationErrors(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name string
		spec Spec
	}{
		{"未知过滤列", Spec{Filters: Filters{"isbn": "x"}}},
		{"未知表前缀", Spec{Filters: Filters{"shelves.id": 1}}},
		{"未知关联", Spec{With: []string{"publisher"}}},
		{"未知嵌套关联", Spec{With: []string{"author.awards"}}},
		{"未知计数关联", Spec{WithCount: []string{"reviews"}}},
		{"未知排序列", Spec{Orders: []Order{{Column: "rating"}}}},
		{"非法排序方向", Spec{Orders: []Order{{Column: "id", Direction: "sideways"}}}},
		{"非法连接类型", Spec{Join: &Join{Type: "cross", Table: "authors", First: "authors.id", Operator: "=", Second: "books.author_id"}}},
		{"非法运算符", Spec{Join: &Join{Type: LeftJoin, Table: "authors", First: "authors.id", Operator: "LIKE", Second: "books.author_id"}}},
		{"搜索时仍校验过滤列", Spec{Search: "x", Filters: Filters{"missing": 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.compose(t, bookDesc, &Book{}, tt.spec)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestNewSpec_Options(t *testing.T) {
	spec := NewSpec(Filters{"id": 1}, With("author"), WithCount("books"), OrderBy("id", Desc))
	assert.Equal(t, Filters{"id": 1}, spec.Filters)
	assert.Equal(t, []string{"author"}, spec.With)
	assert.Equal(t, []string{"books"}, spec.WithCount)
	assert.Equal(t, []Order{{Column: "id", Direction: Desc}}, spec.Orders)
}
