package database

import (
	"context"
	"strings"
	"testing"
)

// captureDB records the last query handed to it so tests can inspect what a
// transaction builder produced.
type captureDB struct {
	query string
	vars  map[string]interface{}
}

func (c *captureDB) Connect(ctx context.Context) error { return nil }
func (c *captureDB) Close() error                      { return nil }
func (c *captureDB) Ping(ctx context.Context) error    { return nil }

func (c *captureDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	c.query = query
	c.vars = vars
	return nil, nil
}

func (c *captureDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	return nil, nil
}

func (c *captureDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	return nil
}

func TestTxBuilder_NamespacesVariables(t *testing.T) {
	t.Parallel()

	tb := NewTxBuilder()
	first := tb.Add(`DELETE template_slot WHERE user_id = $user_id`, map[string]interface{}{
		"user_id": "user:alice",
	})
	second := tb.Add(`CREATE template_slot SET user_id = $user_id, day_of_week = 2`, map[string]interface{}{
		"user_id": "user:bob",
	})

	if first["user_id"] != "v1_user_id" {
		t.Errorf("expected first mapping v1_user_id, got %q", first["user_id"])
	}
	if second["user_id"] != "v2_user_id" {
		t.Errorf("expected second mapping v2_user_id, got %q", second["user_id"])
	}

	query, vars := tb.Build()

	if !strings.Contains(query, "$v1_user_id") || !strings.Contains(query, "$v2_user_id") {
		t.Errorf("expected namespaced variables in query:\n%s", query)
	}
	if strings.Contains(query, "$user_id") {
		t.Errorf("expected no un-namespaced variables left:\n%s", query)
	}
	if len(vars) != 2 {
		t.Fatalf("expected 2 merged vars, got %d", len(vars))
	}
	if vars["v1_user_id"] != "user:alice" || vars["v2_user_id"] != "user:bob" {
		t.Errorf("expected merged vars keyed by namespace, got %v", vars)
	}
}

func TestTxBuilder_PrefixedVariableNamesStayDistinct(t *testing.T) {
	t.Parallel()

	tb := NewTxBuilder()
	// $user is a prefix of $user_id; substitution must not mangle the longer name
	mapping := tb.Add(`RELATE $user->plays->$character SET user_id = $user_id`, map[string]interface{}{
		"user":    "user:alice",
		"user_id": "user:alice",
	})

	query, vars := tb.Build()

	if !strings.Contains(query, "$"+mapping["user_id"]) {
		t.Errorf("expected %q intact in query:\n%s", mapping["user_id"], query)
	}
	if !strings.Contains(query, "$"+mapping["user"]+"->plays") {
		t.Errorf("expected %q intact in query:\n%s", mapping["user"], query)
	}
	if strings.Contains(query, mapping["user"]+"_id") {
		t.Errorf("expected user_id not rewritten through the user mapping:\n%s", query)
	}
	if _, ok := vars[mapping["user_id"]]; !ok {
		t.Errorf("expected merged vars to carry %q, got %v", mapping["user_id"], vars)
	}
}

func TestTxBuilder_BuildWrapsStatements(t *testing.T) {
	t.Parallel()

	tb := NewTxBuilder()
	tb.AddRaw(`UPDATE signup SET status = "withdrawn" WHERE event_id = event:raid;`)
	tb.AddRaw(`UPDATE event SET status = "cancelled" WHERE id = event:raid`)

	query, vars := tb.Build()

	if !strings.HasPrefix(query, "BEGIN TRANSACTION;") {
		t.Errorf("expected transaction open, got:\n%s", query)
	}
	if !strings.HasSuffix(query, "COMMIT TRANSACTION;") {
		t.Errorf("expected transaction close, got:\n%s", query)
	}
	// Statements end with exactly one terminator whether or not they had one
	if strings.Contains(query, ";;") {
		t.Errorf("expected no doubled semicolons:\n%s", query)
	}
	if !strings.Contains(query, `WHERE id = event:raid;`) {
		t.Errorf("expected bare statement terminated:\n%s", query)
	}
	if len(vars) != 0 {
		t.Errorf("expected no vars for raw statements, got %v", vars)
	}
}

func TestTxBuilder_BuildEmpty(t *testing.T) {
	t.Parallel()

	tb := NewTxBuilder()
	query, vars := tb.Build()
	if query != "" || vars != nil {
		t.Errorf("expected empty build, got %q / %v", query, vars)
	}

	// An empty transaction never reaches the database
	results, err := ExecuteTransaction(context.Background(), nil, tb)
	if results != nil || err != nil {
		t.Errorf("expected no-op for empty builder, got %v / %v", results, err)
	}
}

func TestAtomicBatch_ExecuteRunsSingleTransaction(t *testing.T) {
	t.Parallel()

	db := &captureDB{}
	batch := NewAtomicBatch()
	batch.Add(`UPDATE type::record($id) SET status = "withdrawn"`, map[string]interface{}{
		"id": "signup:leaver",
	}).Add(`UPDATE type::record($id) SET status = "confirmed"`, map[string]interface{}{
		"id": "signup:promoted",
	})

	if batch.Len() != 2 {
		t.Fatalf("expected 2 queries in batch, got %d", batch.Len())
	}

	if err := batch.Execute(context.Background(), db); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !strings.HasPrefix(db.query, "BEGIN TRANSACTION;") || !strings.HasSuffix(db.query, "COMMIT TRANSACTION;") {
		t.Errorf("expected a wrapped transaction, got:\n%s", db.query)
	}
	if db.vars["v1_id"] != "signup:leaver" || db.vars["v2_id"] != "signup:promoted" {
		t.Errorf("expected colliding vars namespaced apart, got %v", db.vars)
	}
}

func TestAtomicBatch_EmptyExecuteIsNoOp(t *testing.T) {
	t.Parallel()

	batch := NewAtomicBatch()
	if batch.Len() != 0 {
		t.Fatalf("expected empty batch, got %d", batch.Len())
	}
	if err := batch.Execute(context.Background(), nil); err != nil {
		t.Errorf("expected no-op for empty batch, got %v", err)
	}
}
