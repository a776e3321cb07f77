package builder

import (
	"strings"
	"testing"
	"time"
)

func TestSQLBuilder(t *testing.T) {
	t.Run("Select", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Select("id", "name").From("salespeople").Where("id = ?", "v1").Build()
		expected := "SELECT id, name FROM salespeople WHERE id = $1"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 1 || args[0] != "v1" {
			t.Errorf("expected args [v1], got %v", args)
		}
	})

	t.Run("Insert", func(t *testing.T) {
		b := NewSQLBuilder()
		query, args := b.Insert("commission_rules", "id", "percentage").Values("r1", "3").Build()
		expected := "INSERT INTO commission_rules (id, percentage) VALUES ($1, $2)"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
		if len(args) != 2 || args[0] != "r1" || args[1] != "3" {
			t.Errorf("expected args [r1 3], got %v", args)
		}
	})

	t.Run("Insert on conflict", func(t *testing.T) {
		query, _ := NewSQLBuilder().
			Insert("sales", "id", "amount").
			Values("s1", "100").
			OnConflict("(id) DO NOTHING").
			Build()
		expected := "INSERT INTO sales (id, amount) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING"
		if query != expected {
			t.Errorf("expected %s, got %s", expected, query)
		}
	})

	t.Run("Delete all", func(t *testing.T) {
		query, args := NewSQLBuilder().Delete("sales").Build()
		if query != "DELETE FROM sales" {
			t.Errorf("unexpected query %s", query)
		}
		if len(args) != 0 {
			t.Errorf("expected no args, got %v", args)
		}
	})
}

func TestSQLBuilderWhereChain(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)

	query, args := NewSQLBuilder().
		Select("id", "amount").
		From("sales").
		Where("sold_at >= ?", start).
		Where("sold_at <= ?", end).
		OrderBy("sold_at ASC").
		OrderBy("id ASC").
		Build()

	expected := "SELECT id, amount FROM sales WHERE sold_at >= $1 AND sold_at <= $2 ORDER BY sold_at ASC, id ASC"
	if query != expected {
		t.Errorf("expected %s, got %s", expected, query)
	}
	if len(args) != 2 || args[0] != start || args[1] != end {
		t.Errorf("unexpected args %v", args)
	}
}

func TestSQLBuilderMultiArgCondition(t *testing.T) {
	query, args := NewSQLBuilder().
		Select("id").
		From("sales").
		Where("salesperson_id = ?", "v1").
		Where("amount BETWEEN ? AND ?", 10, 20).
		Build()
	if !strings.HasSuffix(query, "WHERE salesperson_id = $1 AND amount BETWEEN $2 AND $3") {
		t.Errorf("unexpected query %s", query)
	}
	if len(args) != 3 {
		t.Errorf("expected 3 args, got %v", args)
	}
}

func TestBuildSafe(t *testing.T) {
	t.Run("matching counts", func(t *testing.T) {
		_, args, err := NewSQLBuilder().Select("id").From("sales").Where("id = ?", "s1").BuildSafe()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(args) != 1 {
			t.Errorf("expected 1 arg, got %d", len(args))
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		_, _, err := NewSQLBuilder().Select("id").From("sales").Where("id = ? OR id = ?", "s1").BuildSafe()
		if err == nil {
			t.Fatal("expected placeholder mismatch error")
		}
		if !strings.Contains(err.Error(), "placeholder count (2)") {
			t.Errorf("unexpected error %v", err)
		}
	})
}
