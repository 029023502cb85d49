package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        "score_match",
		Description: "Score how well a resume matches a job posting. Returns a score between 0.20 and 1.00 with its display band. Uses the saved resume when resume_text is omitted.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"job_text": map[string]interface{}{
					"type":        "string",
					"description": "Full job posting text. The part between 'Job Description' and 'Targeted Clusters' is scored when present.",
				},
				"resume_text": map[string]interface{}{
					"type":        "string",
					"description": "Resume text (default: the saved resume)",
				},
				"explain": map[string]interface{}{
					"type":        "boolean",
					"description": "Include detected domain, job sections and shared terms (default: false)",
				},
			},
			"required": []string{"job_text"},
		},
	},
	{
		Name:        "format_score",
		Description: "Convert a similarity score into its display label, percentage, color and band.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"score": map[string]interface{}{
					"type":        "number",
					"description": "Similarity score between 0 and 1",
				},
			},
			"required": []string{"score"},
		},
	},
	{
		Name:        "detect_domain",
		Description: "Detect the professional domain of a text (technology, finance, healthcare, ...) from its keywords.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Text to classify",
				},
			},
			"required": []string{"text"},
		},
	},
	{
		Name:        "list_matches",
		Description: "List scored jobs, best match first.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"min_percent": map[string]interface{}{
					"type":        "integer",
					"description": "Only include jobs matching at least this percentage",
				},
				"band": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"excellent", "good", "medium", "below_average", "poor", "very_poor"},
					"description": "Only include jobs in this band",
				},
				"search": map[string]interface{}{
					"type":        "string",
					"description": "Filter by job title (case-insensitive partial match) or exact job ID",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (default: 20)",
				},
			},
		},
	},
	{
		Name:        "get_match",
		Description: "Get the cached score of one job, including the terms it shares with the resume.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"job_id": map[string]interface{}{
					"type":        "string",
					"description": "WaterlooWorks posting ID",
				},
			},
			"required": []string{"job_id"},
		},
	},
	{
		Name:        "get_summary",
		Description: "Get the average match percentage, the number of strong matches and counts per band.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	},
}
