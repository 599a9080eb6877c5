package quiz

import "fmt"

const promptTemplate = `Based on the following lecture summary, create %d multiple-choice quiz questions to test student understanding.

LECTURE SUMMARY:
%s

Requirements:
- Each question should test a key concept from the material
- Provide 4 answer options (A, B, C, D) for each question
- Ensure only one option is correct
- Make incorrect options plausible but clearly wrong
- Vary the difficulty from basic recall to application

IMPORTANT: Respond ONLY with a valid JSON array. No additional text before or after.

Format:
[
    {
        "question": "Your question here?",
        "options": {
            "A": "First option",
            "B": "Second option",
            "C": "Third option",
            "D": "Fourth option"
        },
        "answer": "A",
        "explanation": "Brief explanation of why this is correct"
    }
]`

// BuildPrompt renders the quiz request for count questions over a summary.
func BuildPrompt(summary string, count int) string {
	return fmt.Sprintf(promptTemplate, count, summary)
}
