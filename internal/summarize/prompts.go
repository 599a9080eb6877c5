package summarize

import "fmt"

const summaryTemplate = `You are an expert educational content summarizer. Analyze the following lecture material and create a comprehensive summary.

LECTURE MATERIAL:
%s

Create a well-structured summary that includes:
1. **Main Topic**: A brief one-line description of what this lecture is about
2. **Key Concepts**: List the 3-5 most important concepts covered
3. **Detailed Summary**: A thorough but concise summary of the main points
4. **Key Takeaways**: 3-5 bullet points that students should remember

Format your response in Markdown for clear readability.`

const chunkTemplate = `Summarize the following section of lecture material concisely, capturing all key points:

%s

Provide a concise summary that preserves the main ideas and important details.`

const combineTemplate = `You are an expert educational content summarizer. Combine the following partial summaries into one comprehensive, well-structured summary.

PARTIAL SUMMARIES:
%s

Create a unified summary that includes:
1. **Main Topic**: A brief one-line description of what this lecture is about
2. **Key Concepts**: List the 3-5 most important concepts covered
3. **Detailed Summary**: A thorough but concise summary of the main points
4. **Key Takeaways**: 3-5 bullet points that students should remember

Format your response in Markdown for clear readability.`

// BuildSummaryPrompt embeds the full lecture text for single-shot
// summarization.
func BuildSummaryPrompt(text string) string {
	return fmt.Sprintf(summaryTemplate, text)
}

// BuildChunkPrompt wraps one section of a long lecture for the map phase.
func BuildChunkPrompt(chunk string) string {
	return fmt.Sprintf(chunkTemplate, chunk)
}

// BuildCombinePrompt wraps the joined partial summaries for the reduce
// phase.
func BuildCombinePrompt(partials string) string {
	return fmt.Sprintf(combineTemplate, partials)
}
