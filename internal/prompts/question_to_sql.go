/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package prompts

import (
	"fmt"

	"oceanbase-mcp/internal/mcp"
)

// QuestionToSQL creates a prompt that answers a question with text2sql and execute_sql
func QuestionToSQL() Prompt {
	return Prompt{
		Definition: mcp.Prompt{
			Name:        "question-to-sql",
			Description: "Answer a natural-language question by generating a SQL statement with text2sql and running it with execute_sql.",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "question",
					Description: "The question to answer from the database",
					Required:    true,
				},
			},
		},
		Handler: func(args map[string]string) mcp.PromptResult {
			question := argOr(args, "question", "[your question]")

			return mcp.PromptResult{
				Description: fmt.Sprintf("Answer from the database: %q", question),
				Messages: []mcp.PromptMessage{
					userMessage(fmt.Sprintf(`Answer this question from the database: %q

<workflow>
Step 1: Call text2sql(query=%q, model={"provider": "...", "model": "..."})
Step 2: Review the statement. It must be a single SELECT, SHOW or WITH statement.
Step 3: Call execute_sql(sql=<statement>, format="md")
Step 4: If the statement fails, call get_table_schema for the tables involved,
        correct the statement and run it again
Step 5: Answer the question in plain language and show the statement used
</workflow>`, question, question)),
				},
			}
		},
	}
}
