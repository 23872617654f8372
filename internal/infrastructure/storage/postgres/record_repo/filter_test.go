package record_repo

import (
	"testing"

	"campuscore/internal/domain/filter"
)

func newTestRepo() *BaseRecordRepo[any] {
	return NewBaseRecordRepo[any](nil, "test_table", []string{"id", "col1"}, []string{"col1"}, func() any { return nil })
}

func TestApplyAdvancedFilters_Operators(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		name     string
		item     filter.Item
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "Greater",
			item:     filter.Item{Field: "col1", Operator: filter.Greater, Value: 10},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 > $1",
			wantArgs: []any{10},
		},
		{
			name:     "Less",
			item:     filter.Item{Field: "col1", Operator: filter.Less, Value: 5},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 < $1",
			wantArgs: []any{5},
		},
		{
			name:     "Contains",
			item:     filter.Item{Field: "col1", Operator: filter.Contains, Value: "abc"},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 ILIKE $1",
			wantArgs: []any{"%abc%"},
		},
		{
			name:     "NotEqual",
			item:     filter.Item{Field: "col1", Operator: filter.NotEqual, Value: "x"},
			wantSQL:  "SELECT id, col1 FROM test_table WHERE col1 <> $1",
			wantArgs: []any{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := repo.applyAdvancedFilters(repo.baseSelect(), []filter.Item{tt.item})
			if err != nil {
				t.Fatalf("applyAdvancedFilters failed: %v", err)
			}

			sql, args, err := q.ToSql()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}

			if sql != tt.wantSQL {
				t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", tt.wantSQL, sql)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("Args count mismatch\nwant: %d\ngot:  %d", len(tt.wantArgs), len(args))
			}
			if args[0] != tt.wantArgs[0] {
				t.Errorf("Args mismatch\nwant: %v\ngot:  %v", tt.wantArgs[0], args[0])
			}
		})
	}
}

func TestApplyAdvancedFilters_RejectsUnknownColumn(t *testing.T) {
	repo := newTestRepo()

	_, err := repo.applyAdvancedFilters(repo.baseSelect(), []filter.Item{
		{Field: "evil; DROP TABLE", Operator: filter.Equal, Value: 1},
	})
	if err == nil {
		t.Fatal("expected error for non-whitelisted column")
	}
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "created_at DESC", false},
		{"col1", "col1 ASC", false},
		{"-col1", "col1 DESC", false},
		{"+col1", "col1 ASC", false},
		{"unknown", "", true},
		{"-", "", true},
	}
	for _, tt := range tests {
		got, err := repo.parseOrderBy(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseOrderBy(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseOrderBy(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseOrderBy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
