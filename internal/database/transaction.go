package database

// Transaction utilities.
//
// Two patterns for atomic multi-statement operations:
//
// # AtomicBatch (Recommended for most cases)
//
// Simple, fluent API for 2-5 statements that must succeed together:
//
//	batch := NewAtomicBatch()
//	batch.Add(query1, vars1)
//	batch.Add(query2, vars2)
//	batch.Execute(ctx, db)  // All or nothing
//
// The demote-then-promote main-character swap and the waitlist promotion
// on withdrawal are AtomicBatch callers.
//
// # TxBuilder (For complex variable handling)
//
// Use when combining queries with potentially conflicting variable names.
// Variables are automatically namespaced ($user_id -> $v1_user_id):
//
//	tb := NewTxBuilder()
//	tb.Add("DELETE template_slot WHERE user_id = $user_id", vars1)
//	tb.Add("CREATE template_slot SET user_id = $user_id, ...", vars2)
//	ExecuteTransaction(ctx, db, tb)
//
// IMPORTANT: Both patterns are BATCH-BASED. Queries accumulate and execute
// together at commit time. There is no isolation between Add() calls.

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// TxBuilder builds atomic transaction queries with automatic variable namespacing.
// This prevents variable name collisions when combining queries from different sources.
type TxBuilder struct {
	statements []string
	vars       map[string]interface{}
	varCounter uint64
}

// NewTxBuilder creates a new transaction builder
func NewTxBuilder() *TxBuilder {
	return &TxBuilder{
		statements: make([]string, 0),
		vars:       make(map[string]interface{}),
	}
}

// Add adds a statement to the transaction, namespacing variables to avoid collisions
// Returns the namespaced variable map for reference
func (tb *TxBuilder) Add(query string, vars map[string]interface{}) map[string]string {
	varMapping := make(map[string]string)
	newQuery := query

	// Longest names first so $user never clobbers the prefix of $user_id
	names := make([]string, 0, len(vars))
	for varName := range vars {
		names = append(names, varName)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	for _, varName := range names {
		counter := atomic.AddUint64(&tb.varCounter, 1)
		newVarName := fmt.Sprintf("v%d_%s", counter, varName)

		newQuery = strings.ReplaceAll(newQuery, "$"+varName, "$"+newVarName)

		tb.vars[newVarName] = vars[varName]
		varMapping[varName] = newVarName
	}

	tb.statements = append(tb.statements, newQuery)
	return varMapping
}

// AddRaw adds a raw statement without variable substitution
func (tb *TxBuilder) AddRaw(query string) {
	tb.statements = append(tb.statements, query)
}

// Build returns the complete transaction query and merged variables
func (tb *TxBuilder) Build() (string, map[string]interface{}) {
	if len(tb.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range tb.statements {
		sb.WriteString(stmt)
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")

	return sb.String(), tb.vars
}

// ExecuteTransaction executes a transaction built with TxBuilder
func ExecuteTransaction(ctx context.Context, db Database, tb *TxBuilder) ([]interface{}, error) {
	query, vars := tb.Build()
	if query == "" {
		return nil, nil
	}

	return db.Query(ctx, query, vars)
}

// AtomicBatch provides a simpler API for batch operations that should be atomic
type AtomicBatch struct {
	queries []batchQuery
}

type batchQuery struct {
	query string
	vars  map[string]interface{}
}

// NewAtomicBatch creates a new atomic batch
func NewAtomicBatch() *AtomicBatch {
	return &AtomicBatch{
		queries: make([]batchQuery, 0),
	}
}

// Add adds a query to the batch
func (ab *AtomicBatch) Add(query string, vars map[string]interface{}) *AtomicBatch {
	ab.queries = append(ab.queries, batchQuery{query: query, vars: vars})
	return ab
}

// Execute runs all queries as a single transaction
func (ab *AtomicBatch) Execute(ctx context.Context, db Database) error {
	if len(ab.queries) == 0 {
		return nil
	}

	tb := NewTxBuilder()
	for _, q := range ab.queries {
		tb.Add(q.query, q.vars)
	}

	_, err := ExecuteTransaction(ctx, db, tb)
	return err
}

// Len returns the number of queries in the batch
func (ab *AtomicBatch) Len() int {
	return len(ab.queries)
}
