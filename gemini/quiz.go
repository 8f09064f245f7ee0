package gemini

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QuizContent is the validated output of one generation: a finite, fully
// materialized list of questions with exactly 4 options each.
type QuizContent struct {
	Questions []QuizQuestion
}

type QuizQuestion struct {
	Text    string
	Options []string
	Correct int // zero-based index into Options
}

// rawQuiz mirrors the JSON shape requested from the provider. It is decoded
// strictly and validated before anything touches domain types.
type rawQuiz struct {
	Questions []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  *int     `json:"correct"`
}

// BuildQuizPrompt renders the generation prompt. The template matches the
// wording students see in the generated quizzes, so it stays in Portuguese.
func BuildQuizPrompt(prompt, objective string, count int) string {
	return fmt.Sprintf(`Crie exatamente %d perguntas de múltipla escolha sobre o tema: "%s"

Objetivo do quiz: %s

IMPORTANTE: Responda APENAS com um JSON válido no seguinte formato:

{
  "questions": [
    {
      "question": "Qual é a pergunta?",
      "options": ["Opção A", "Opção B", "Opção C", "Opção D"],
      "correct": 0
    }
  ]
}

Regras:
- Crie exatamente %d perguntas
- Cada pergunta deve ter exatamente 4 opções
- "correct" deve ser o índice da resposta correta (0, 1, 2 ou 3)
- Use apenas texto em português
- Não adicione texto extra fora do JSON`, count, prompt, objective, count)
}

// ParseQuizContent extracts the quiz JSON from raw provider text and
// validates it against the requested question count. The whole response is
// accepted or rejected, questions are never skipped individually.
func ParseQuizContent(text string, count int) (*QuizContent, error) {
	jsonText, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var raw rawQuiz
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		return nil, &MalformedResponseError{Reason: "extracted span is not valid JSON", Raw: text}
	}

	if raw.Questions == nil {
		return nil, &ValidationError{Reason: "missing questions array"}
	}
	if len(raw.Questions) != count {
		return nil, &ValidationError{Reason: fmt.Sprintf("expected %d questions, got %d", count, len(raw.Questions))}
	}

	quiz := &QuizContent{Questions: make([]QuizQuestion, 0, len(raw.Questions))}
	for i, q := range raw.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, &ValidationError{Reason: fmt.Sprintf("question %d has empty text", i+1)}
		}
		if len(q.Options) != 4 {
			return nil, &ValidationError{Reason: fmt.Sprintf("question %d has %d options, expected 4", i+1, len(q.Options))}
		}
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return nil, &ValidationError{Reason: fmt.Sprintf("question %d option %d is empty", i+1, j+1)}
			}
		}
		if q.Correct == nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("question %d has no correct index", i+1)}
		}
		if *q.Correct < 0 || *q.Correct > 3 {
			return nil, &ValidationError{Reason: fmt.Sprintf("question %d correct index %d out of range", i+1, *q.Correct)}
		}

		quiz.Questions = append(quiz.Questions, QuizQuestion{
			Text:    q.Question,
			Options: q.Options,
			Correct: *q.Correct,
		})
	}

	return quiz, nil
}

// extractJSON strips Markdown code fences and returns the first balanced
// {...} span. Bracket matching is string-aware so braces inside quoted
// question text do not break the scan.
func extractJSON(text string) (string, error) {
	jsonText := strings.TrimSpace(text)

	if strings.HasPrefix(jsonText, "```json") {
		jsonText = strings.TrimPrefix(jsonText, "```json")
		jsonText = strings.TrimSuffix(strings.TrimSpace(jsonText), "```")
	} else if strings.HasPrefix(jsonText, "```") {
		jsonText = strings.TrimPrefix(jsonText, "```")
		jsonText = strings.TrimSuffix(strings.TrimSpace(jsonText), "```")
	}
	jsonText = strings.TrimSpace(jsonText)

	start := strings.IndexByte(jsonText, '{')
	if start < 0 {
		return "", &MalformedResponseError{Reason: "no JSON object found", Raw: text}
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(jsonText); i++ {
		ch := jsonText[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return jsonText[start : i+1], nil
			}
		}
	}

	return "", &MalformedResponseError{Reason: "unbalanced JSON object", Raw: text}
}
