// Package examples ships a small set of ready-made skills used by the demo
// command and as executable fixtures for the test tiers.
package examples

import (
	"fmt"
	"strings"
	"time"

	"github.com/skillcheck/skillcheck/pkg/skill"
)

var exampleTimestamp = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// NewRegistry returns a registry preloaded with the example skills.
func NewRegistry() (*skill.Registry, error) {
	registry := skill.NewRegistry()
	for _, s := range []*skill.Skill{
		CodeReviewSkill(),
		TestGeneratorSkill(),
		RefactorSkill(),
	} {
		if err := registry.Register(s); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// CodeReviewSkill analyzes a code snippet and reports issues, suggestions
// and a quality score.
func CodeReviewSkill() *skill.Skill {
	implementation := func(params map[string]any) (any, error) {
		code, _ := params["code"].(string)
		language, ok := params["language"].(string)
		if !ok {
			language = "go"
		}

		var issues, suggestions []string
		if strings.TrimSpace(code) == "" {
			issues = append(issues, "Code is empty")
		}
		if strings.Contains(code, "TODO") {
			suggestions = append(suggestions, "Found TODO comments - consider addressing them")
		}
		if language == "go" {
			if strings.Contains(code, "fmt.Println") && strings.Contains(strings.ToLower(code), "debug") {
				suggestions = append(suggestions, "Debug print statements should be removed")
			}
			if strings.Contains(code, "panic(") {
				suggestions = append(suggestions, "Prefer returning errors over panicking")
			}
		}
		if len(strings.Split(code, "\n")) > 100 {
			suggestions = append(suggestions, "Function is too long - consider breaking it down")
		}

		score := 100 - len(issues)*20 - len(suggestions)*5
		if score < 0 {
			score = 0
		}

		return map[string]any{
			"language":      language,
			"issues":        issues,
			"suggestions":   suggestions,
			"approved":      len(issues) == 0,
			"quality_score": score,
		}, nil
	}

	return &skill.Skill{
		Metadata: skill.Metadata{
			Name:        "code-review",
			Version:     "1.0.0",
			Description: "Automated code review skill that analyzes code quality and provides feedback",
			Author:      "Enterprise Team",
			CreatedAt:   exampleTimestamp,
			UpdatedAt:   exampleTimestamp,
			Tags:        []string{"code-quality", "review", "analysis"},
		},
		Triggers: []skill.TriggerRule{
			{Condition: skill.TriggerKeyword, Pattern: "review code", Priority: 10},
			{Condition: skill.TriggerKeyword, Pattern: "code review", Priority: 10},
			{Condition: skill.TriggerContext, Pattern: "review_required", Priority: 5,
				ContextRequirements: map[string]any{"action": "review"}},
		},
		Parameters: []skill.Parameter{
			{Name: "code", Type: "string", Required: true, Description: "The code to review"},
			{Name: "language", Type: "string", Default: "go", Description: "Programming language of the code"},
		},
		Output: skill.Output{
			Type: "map",
			Schema: map[string]string{
				"issues":        "list",
				"suggestions":   "list",
				"approved":      "bool",
				"quality_score": "int",
			},
		},
		Implementation: implementation,
		PromptTemplate: "Review the following {language} code:\n\n```{language}\n{code}\n```\n\nProvide critical issues, improvement suggestions, and a quality score (0-100).",
		Examples: []skill.Example{
			{
				Input:  map[string]any{"code": "func hello() { fmt.Println(\"world\") }", "language": "go"},
				Output: map[string]any{"issues": []string{}, "approved": true, "quality_score": 100},
			},
		},
		RedFlags: []string{
			"Do not review code without understanding the context",
			"Do not approve code with security vulnerabilities",
			"Do not suggest changes that would break functionality",
		},
	}
}

var supportedFrameworks = map[string]bool{
	"testing": true,
	"testify": true,
}

// TestGeneratorSkill produces a unit test skeleton for a named function.
func TestGeneratorSkill() *skill.Skill {
	implementation := func(params map[string]any) (any, error) {
		functionName, _ := params["function_name"].(string)
		framework, ok := params["test_framework"].(string)
		if !ok {
			framework = "testify"
		}

		exported := strings.ToUpper(functionName[:1]) + functionName[1:]
		var testCode string
		switch framework {
		case "testify":
			testCode = fmt.Sprintf(`func Test%[1]s(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		assert.NotPanics(t, func() { %[2]s() })
	})
	t.Run("edge cases", func(t *testing.T) {
		t.Skip("fill in edge case inputs")
	})
	t.Run("errors", func(t *testing.T) {
		t.Skip("fill in error inputs")
	})
}
`, exported, functionName)
		case "testing":
			testCode = fmt.Sprintf(`func Test%[1]s(t *testing.T) {
	%[2]s()
}
`, exported, functionName)
		default:
			testCode = fmt.Sprintf("// Unsupported framework: %s", framework)
		}

		return map[string]any{
			"function_name":  functionName,
			"test_framework": framework,
			"test_code":      testCode,
			"num_tests":      3,
		}, nil
	}

	return &skill.Skill{
		Metadata: skill.Metadata{
			Name:        "test-generator",
			Version:     "1.0.0",
			Description: "Generate unit tests for functions automatically",
			Author:      "Enterprise Team",
			CreatedAt:   exampleTimestamp,
			UpdatedAt:   exampleTimestamp,
			Tags:        []string{"testing", "code-generation", "quality"},
		},
		Triggers: []skill.TriggerRule{
			{Condition: skill.TriggerKeyword, Pattern: "generate tests", Priority: 10},
			{Condition: skill.TriggerKeyword, Pattern: "create test", Priority: 10},
		},
		Parameters: []skill.Parameter{
			{Name: "function_name", Type: "string", Required: true, Description: "Name of the function to test",
				Validate: func(v any) bool {
					s, ok := v.(string)
					return ok && s != ""
				}},
			{Name: "function_code", Type: "string", Required: true, Description: "Source code of the function"},
			{Name: "test_framework", Type: "string", Default: "testify", Description: "Testing framework to use",
				Validate: func(v any) bool {
					s, ok := v.(string)
					return ok && supportedFrameworks[s]
				}},
		},
		Output: skill.Output{
			Type: "map",
			Schema: map[string]string{
				"test_code": "string",
				"num_tests": "int",
			},
		},
		Implementation: implementation,
		Examples: []skill.Example{
			{
				Input: map[string]any{
					"function_name":  "add",
					"function_code":  "func add(a, b int) int { return a + b }",
					"test_framework": "testify",
				},
			},
		},
		RedFlags: []string{
			"Do not generate tests without understanding function behavior",
			"Do not skip edge case testing",
			"Do not generate tests that always pass",
		},
	}
}

var refactorTypes = map[string]bool{
	"extract_function":   true,
	"rename_variable":    true,
	"simplify":           true,
	"remove_duplication": true,
}

// RefactorSkill suggests a refactoring of a code snippet.
func RefactorSkill() *skill.Skill {
	implementation := func(params map[string]any) (any, error) {
		code, _ := params["code"].(string)
		refactorType, _ := params["refactor_type"].(string)

		refactored := code
		var changes []string
		switch refactorType {
		case "extract_function":
			changes = append(changes, "Identified code block for extraction")
			refactored = "// TODO: extract function\n" + code
		case "rename_variable":
			changes = append(changes, "Suggested variable renames for clarity")
		case "simplify":
			changes = append(changes, "Simplified complex expressions")
		case "remove_duplication":
			changes = append(changes, "Collapsed duplicated blocks")
		}

		return map[string]any{
			"original_code":     code,
			"refactored_code":   refactored,
			"refactor_type":     refactorType,
			"changes":           changes,
			"improvement_score": 75,
		}, nil
	}

	return &skill.Skill{
		Metadata: skill.Metadata{
			Name:        "refactor",
			Version:     "1.0.0",
			Description: "Refactor code to improve quality and maintainability",
			Author:      "Enterprise Team",
			CreatedAt:   exampleTimestamp,
			UpdatedAt:   exampleTimestamp,
			Tags:        []string{"refactoring", "code-quality"},
		},
		Triggers: []skill.TriggerRule{
			{Condition: skill.TriggerKeyword, Pattern: "refactor", Priority: 10},
		},
		Parameters: []skill.Parameter{
			{Name: "code", Type: "string", Required: true, Description: "Code to refactor"},
			{Name: "refactor_type", Type: "string", Required: true, Description: "Type of refactoring to apply",
				Validate: func(v any) bool {
					s, ok := v.(string)
					return ok && refactorTypes[s]
				}},
		},
		Output: skill.Output{
			Type: "map",
			Schema: map[string]string{
				"refactored_code":   "string",
				"changes":           "list",
				"improvement_score": "int",
			},
		},
		Implementation: implementation,
		Examples: []skill.Example{
			{
				Input: map[string]any{
					"code":          "func calc(x, y int) int { return x + y }",
					"refactor_type": "rename_variable",
				},
			},
		},
		RedFlags: []string{
			"Do not refactor without tests",
			"Do not change behavior during refactoring",
			"Do not refactor production code without approval",
		},
	}
}
