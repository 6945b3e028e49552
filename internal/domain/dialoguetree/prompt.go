package dialoguetree

import (
	"fmt"
	"strings"
)

// PromptInput carries everything the system message needs.
type PromptInput struct {
	CaseBackground     string
	PreviousStatements string
	SimulationGoal     string
	// LastMessage, when set, becomes the fixed level-1 statement of a
	// continuation round instead of a model-chosen opening.
	LastMessage string
}

// BuildSystemMessage assembles the generation prompt. Continuations pin the
// level-1 line to the last message and alternate speakers from there; fresh
// trees let the model pick the opening side from the background.
func BuildSystemMessage(in PromptInput) string {
	var level1, level2, level3, specialNote string

	if in.LastMessage != "" {
		level1 = fmt.Sprintf("Level 1: Use the provided last message as the Level 1 statement: %q\n", in.LastMessage)
		specialNote = fmt.Sprintf("\nIMPORTANT: The Level 1 node must use exactly this text: %q\n", in.LastMessage)

		// Crude side inference carried over from the first cut of the
		// product: the caller does not tell us who said the last line.
		nextSpeaker, followUpSpeaker := "A", "B"
		if strings.Contains(in.LastMessage, "A") || strings.HasPrefix(in.LastMessage, "Your client") {
			nextSpeaker, followUpSpeaker = "B", "A"
		}
		level2 = fmt.Sprintf("Level 2: Three possible responses from %q.\n", nextSpeaker)
		level3 = fmt.Sprintf("Level 3: For each Level 2 response, provide exactly three follow-up replies from %q.\n", followUpSpeaker)
	} else {
		level1 = "Level 1: An opening statement. Based on the [CASE_BACKGROUND], determine who should initiate the negotiation:\n" +
			"- If your client (Player) should initiate (e.g., making a demand, presenting evidence, proposing settlement): speaker = \"A\"\n" +
			"- If the opposing side should initiate (e.g., they approach your client first, they have the burden, they sent an initial offer): speaker = \"B\"\n" +
			"The decision should be realistic based on negotiation dynamics and who is most likely to reach out first given the context.\n"
		level2 = "Level 2: Three possible responses. If Level 1 speaker is \"A\", Level 2 should be responses from \"B\". If Level 1 is \"B\", Level 2 should be responses from \"A\".\n"
		level3 = "Level 3: For each Level 2 response, provide exactly three follow-up replies. The speaker should alternate: if Level 2 is from \"B\", Level 3 is from \"A\"; if Level 2 is from \"A\", Level 3 is from \"B\".\n"
	}

	var b strings.Builder
	b.WriteString("You are an expert legal simulation generator. Your task is to create a realistic, branching dialogue tree for a legal negotiation scenario. You will be given a detailed case background and a specific simulation goal. Your output MUST be a single, valid JSON object and nothing else.\n\n")
	b.WriteString("[TASK_DEFINITION]\n")
	b.WriteString("Generate a dialogue tree exactly three (3) levels deep.\n")
	b.WriteString(level1)
	b.WriteString(level2)
	b.WriteString(level3)
	b.WriteString("The dialogue must directly reflect the facts, disputed issues, and (most importantly) the personalities described in the [CASE_BACKGROUND]. The entire negotiation must be focused on achieving the [SIMULATION_GOAL].\n\n")
	b.WriteString("[INPUT_CONTEXT]\n\n")
	fmt.Fprintf(&b, "[CASE_BACKGROUND]\n%s\n\n", in.CaseBackground)
	fmt.Fprintf(&b, "[PREVIOUS STATEMENTS]\n%s\n\n", in.PreviousStatements)
	fmt.Fprintf(&b, "[SIMULATION_GOAL] %s\n\n", in.SimulationGoal)
	b.WriteString(specialNote)
	b.WriteString("[OUTPUT_FORMAT_AND_CONSTRAINTS]\n")
	b.WriteString("Output format MUST be a single, valid JSON object.\n")
	b.WriteString("Do not include any text, explanations, or markdown formatting before or after the JSON object.\n")
	b.WriteString("The root of the JSON object must be scenarios_tree.\n")
	b.WriteString("Follow the schema precisely:\n")
	b.WriteString("speaker: (string) \"A\" or \"B\".\n")
	b.WriteString("line: (string) The text of the dialogue.\n")
	b.WriteString("level: (number) The depth of the node (1, 2, or 3).\n")
	b.WriteString("reflects_personality: (string) A brief justification of how this line reflects the facts or personality from the [CASE_BACKGROUND].\n")
	b.WriteString("responses: (array) An array of nested node objects. Level 3 nodes must have an empty [] responses array.\n\n")
	b.WriteString("[SCHEMA_DEFINITION]\n")
	b.WriteString("The speaker at Level 1 can be either \"A\" or \"B\" based on the context.\n")
	b.WriteString("Level 2 speaker must be the opposite of Level 1.\n")
	b.WriteString("Level 3 speaker must be the opposite of Level 2.\n")
	b.WriteString("Example where Player starts:\n")
	b.WriteString("{\n")
	b.WriteString("  \"scenarios_tree\": {\n")
	b.WriteString("    \"speaker\": \"A\",\n")
	b.WriteString("    \"line\": \"...\",\n")
	b.WriteString("    \"level\": 1,\n")
	b.WriteString("    \"reflects_personality\": \"...\",\n")
	b.WriteString("    \"responses\": [\n")
	b.WriteString("      {\"speaker\": \"B\", \"line\": \"...\", \"level\": 2, ...},\n")
	b.WriteString("      {\"speaker\": \"B\", \"line\": \"...\", \"level\": 2, ...},\n")
	b.WriteString("      {\"speaker\": \"B\", \"line\": \"...\", \"level\": 2, ...}\n")
	b.WriteString("    ]\n")
	b.WriteString("  }\n")
	b.WriteString("}\n\n")
	b.WriteString("Example where B starts:\n")
	b.WriteString("{\n")
	b.WriteString("  \"scenarios_tree\": {\n")
	b.WriteString("    \"speaker\": \"B\",\n")
	b.WriteString("    \"line\": \"...\",\n")
	b.WriteString("    \"level\": 1,\n")
	b.WriteString("    \"reflects_personality\": \"...\",\n")
	b.WriteString("    \"responses\": [\n")
	b.WriteString("      {\"speaker\": \"A\", \"line\": \"...\", \"level\": 2, ...},\n")
	b.WriteString("      {\"speaker\": \"A\", \"line\": \"...\", \"level\": 2, ...},\n")
	b.WriteString("      {\"speaker\": \"A\", \"line\": \"...\", \"level\": 2, ...}\n")
	b.WriteString("    ]\n")
	b.WriteString("  }\n")
	b.WriteString("}\n")
	b.WriteString("Each Level 2 response contains 3 Level 3 responses in its \"responses\" array.")
	return b.String()
}

// userMessage is the fixed user turn paired with the system message.
const userMessage = "Generate the legal negotiation dialogue tree now."
