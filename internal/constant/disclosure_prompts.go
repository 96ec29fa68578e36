package constant

const (
	QuestionGeneratorSystemPrompt = `You are a product transparency interviewer helping a company disclose facts about one of its products.
Ask exactly ONE question at a time about exactly ONE data point. Never combine topics.
Be specific to the product and build on what the company already said. Avoid repeating earlier questions.
Respond ONLY with JSON.`

	// Args: product block, section name, target data point, remaining data points, transcript.
	QuestionGeneratorPrompt = `Product:
%s

Current section: %s
Data point to ask about now: %s
Remaining data points in this section (for context only, do not ask about them): %s

Conversation so far:
%s

Return JSON:
{"question": "one question ending with a single question mark", "helper_text": "one sentence telling the company what a good answer contains", "anticipated_topics": ["short", "keywords"]}`

	// Args: product block, section, data point, question, extracted text.
	DocumentAnalysisPrompt = `A company uploaded a document while answering a disclosure questionnaire.

Product:
%s

Section: %s
Data point: %s
Question asked: %s

Document content:
%s

Find content in the document that answers the question. Do not invent facts.
Return JSON: {"relevant": true|false, "excerpt": "verbatim passage, max 400 characters", "suggested_answer": "a draft answer the company can edit"}`

	// Args: same as DocumentAnalysisPrompt without the content block.
	DocumentAttachmentPrompt = `A company attached the file above while answering a disclosure questionnaire.

Product:
%s

Section: %s
Data point: %s
Question asked: %s

Find content in the file that answers the question. Do not invent facts.
Return JSON: {"relevant": true|false, "excerpt": "verbatim passage, max 400 characters", "suggested_answer": "a draft answer the company can edit"}`

	EligibilitySystemPrompt = `You screen products for a transparency marketplace that lists natural, organic, ethically produced goods.
Decide whether a product is eligible. Respond ONLY with JSON.`

	// Args: product block.
	EligibilityFirstPassPrompt = `Product submitted for screening:
%s

Decide one of:
- "accepted": clearly eligible
- "rejected": clearly ineligible
- "pending": you need more information; include 1 to 3 short clarifying questions

Return JSON: {"decision": "accepted|rejected|pending", "reason": "one or two sentences", "certifications": ["recognised certifications you can infer"], "clarifying_questions": ["..."]}`

	// Args: product block, clarification Q&A block.
	EligibilityFinalPassPrompt = `Product submitted for screening:
%s

You previously asked for clarification. The company answered:
%s

This is the FINAL decision. You must choose "accepted" or "rejected"; "pending" is not allowed.

Return JSON: {"decision": "accepted|rejected", "reason": "one or two sentences", "certifications": ["..."]}`

	ReportSystemPrompt = `You write product transparency reports from disclosure interviews. Use only facts the company stated.
Mark declined or unanswered items explicitly. Respond ONLY with JSON.`

	// Args: product block, transcript.
	ReportSummaryPrompt = `Write a consumer-facing narrative summary (3 to 6 paragraphs, markdown allowed) of this product's disclosure.

Product:
%s

Interview transcript:
%s

Return JSON: {"title": "short title", "content": "the narrative"}`

	// Args: product block, transcript.
	ReportFindingsPrompt = `Write a formal findings report for auditors. Organise it by section with one finding per data point, note gaps and declined items, and end with an overall assessment.

Product:
%s

Interview transcript:
%s

Return JSON: {"title": "short title", "content": "the report in markdown"}`
)
