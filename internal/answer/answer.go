// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"text/template"
	"time"
)

// sqlPromptTmpl asks the model to write a query for the flattened triple table.
var sqlPromptTmpl = template.Must(template.New("sql").Parse(
	`Given the following SQL table, your job is to write queries given a user's request.
CREATE TABLE {{.Table}} ({{.Columns}});
User request: {{.Request}}
Respond with the SQL query inside a ` + "```sql" + ` fenced block.
SQL Query:`))

// explainPromptTmpl asks the model to summarize the query results. When the
// user's request mentions a list the prompt asks for the bare results.
var explainPromptTmpl = template.Must(template.New("explain").Parse(
	`Question: {{.Question}}
Results: {{.Results}}
{{if .ListMode}}Show the results without extra information in a way that is easy to understand:{{else}}Explain the results without extra information in a way that is easy to understand:{{end}}`))

// sqlFenceRe matches the first ```sql fenced block in a model reply.
var sqlFenceRe = regexp.MustCompile("(?s)```sql(.*?)```")

// backoffBase controls the base duration for LLM retry backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// Machine runs the question-answering pipeline: question to SQL, SQL to
// rows, rows to an explanation.
type Machine struct {
	LLM        LLM
	Store      *Store
	MaxRetries int
}

// Answer processes one natural-language question. The userRequest phrasing
// steers the SQL the model writes; when empty the question itself is used.
func (m *Machine) Answer(ctx context.Context, question, userRequest string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question is empty")
	}
	if userRequest == "" {
		userRequest = question
	}

	sqlQuery, err := m.GenerateSQL(ctx, userRequest)
	if err != nil {
		return "", fmt.Errorf("generating SQL: %w", err)
	}

	cols, rows, err := m.Store.Execute(ctx, sqlQuery)
	if err != nil {
		return "", fmt.Errorf("executing generated SQL: %w", err)
	}

	explanation, err := m.Explain(ctx, question, userRequest, cols, rows)
	if err != nil {
		return "", fmt.Errorf("explaining results: %w", err)
	}

	return CleanAnswer(explanation), nil
}

// GenerateSQL asks the model for a SQL query answering the request and
// extracts it from the fenced block.
func (m *Machine) GenerateSQL(ctx context.Context, userRequest string) (string, error) {
	var buf bytes.Buffer
	err := sqlPromptTmpl.Execute(&buf, struct {
		Table, Columns, Request string
	}{
		Table:   TableName,
		Columns: strings.Join(m.Store.Columns(), ", "),
		Request: userRequest,
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	reply, err := m.chatWithRetry(ctx, buf.String())
	if err != nil {
		return "", err
	}
	return ExtractSQL(reply)
}

// ExtractSQL pulls the SQL statement out of a ```sql fenced block.
func ExtractSQL(reply string) (string, error) {
	match := sqlFenceRe.FindStringSubmatch(reply)
	if match == nil {
		return "", fmt.Errorf("no sql fenced block in model reply")
	}
	query := strings.TrimSpace(match[1])
	query = strings.ReplaceAll(query, "\\n", " ")
	if query == "" {
		return "", fmt.Errorf("empty sql fenced block in model reply")
	}
	return query, nil
}

// Explain asks the model to summarize the result rows for the user.
func (m *Machine) Explain(ctx context.Context, question, userRequest string, cols []string, rows [][]string) (string, error) {
	var results strings.Builder
	results.WriteString(strings.Join(cols, " | "))
	for _, row := range rows {
		results.WriteString("\n")
		results.WriteString(strings.Join(row, " | "))
	}

	var buf bytes.Buffer
	err := explainPromptTmpl.Execute(&buf, struct {
		Question, Results string
		ListMode          bool
	}{
		Question: question,
		Results:  results.String(),
		ListMode: strings.Contains(strings.ToLower(userRequest), "list"),
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	return m.chatWithRetry(ctx, buf.String())
}

// answerCleaner strips the decoration characters models wrap answers in.
var answerCleaner = strings.NewReplacer(
	"(", "", ")", "",
	"'", "", `"`, "",
	`\`, "", "`", "",
	"*", "", "^", "",
	"~", "", "|", "",
)

// CleanAnswer removes markup and quoting noise from a model reply.
func CleanAnswer(answer string) string {
	return answerCleaner.Replace(answer)
}

// chatWithRetry calls the LLM with exponential backoff.
func (m *Machine) chatWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := m.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		reply, err := m.LLM.Chat(ctx, prompt)
		if err == nil {
			return reply, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
