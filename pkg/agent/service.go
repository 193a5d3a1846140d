// Package agent answers natural language questions about the stored readings.
// The store is only reached through its read-only query surface.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Prefix of every failed answer returned by Ask.
const ErrorMarker = "Error: "

var (
	ErrEmptyAnswer   = errors.New("no answer produced")
	ErrEmptyQuestion = errors.New("question is empty")
)

type Answerer interface {
	Answer(ctx context.Context, question, schema string) (string, error)
}

type Completer interface {
	ChatCompletions(ctx context.Context, prompt string) (string, error)
}

// Querier runs one read-only SELECT. Implemented by *solardb.Store.
type Querier interface {
	QueryRows(ctx context.Context, query string) ([]map[string]any, error)
}

// SQLChain lets the model write a query, runs it, then lets the model phrase the answer.
type SQLChain struct {
	llm Completer
	db  Querier
}

func NewSQLChain(llm Completer, db Querier) *SQLChain {
	return &SQLChain{llm: llm, db: db}
}

func (c *SQLChain) Answer(ctx context.Context, question, schema string) (string, error) {
	query, err := c.llm.ChatCompletions(ctx, fmt.Sprintf(queryPrompt, schema, question))
	if err != nil {
		return "", fmt.Errorf("generate query: %w", err)
	}

	rows, err := c.db.QueryRows(ctx, query)
	if err != nil {
		return "", fmt.Errorf("run query %q: %w", strings.TrimSpace(query), err)
	}

	answer, err := c.llm.ChatCompletions(ctx, fmt.Sprintf(answerPrompt, formatRows(rows), question))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}

func formatRows(rows []map[string]any) string {
	var builder strings.Builder
	for i, row := range rows {
		builder.WriteString(fmt.Sprintf("RESULT: %d\n", i+1))
		keys := lo.Keys(row)
		slices.Sort(keys)
		for _, k := range keys {
			builder.WriteString(fmt.Sprintf("KEY: %s, VAL: %v\n", k, row[k]))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

// Ask never fails: errors come back as text starting with ErrorMarker.
func Ask(ctx context.Context, a Answerer, question, schema string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		return ErrorMarker + ErrEmptyQuestion.Error()
	}

	answer, err := a.Answer(ctx, question, schema)
	if err != nil {
		log.Printf("Agent failed to answer %q: %v", question, err)
		return ErrorMarker + err.Error()
	}
	return answer
}

func IsError(answer string) bool {
	return strings.HasPrefix(answer, ErrorMarker)
}
