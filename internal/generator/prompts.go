package generator

const notesPrompt = `You turn lecture transcripts into concise study notes.

Split the lecture below into logical sections. Give every section a short title and
3 to 6 bullet points with the key concepts, definitions and examples. Finish with a
section titled "Key Takeaways".

Answer with JSON only, using this shape:
{"sections": [{"title": "Section title", "content": ["point", "point"]}]}

Lecture transcript:
---
%s
---`

const narrationPrompt = `Rewrite these study notes as a spoken recap, as a friendly tutor would explain
them to a student. Keep every key idea, use natural transitions between topics and
aim for two to three minutes of speech (roughly 300 to 400 words).

Return plain text only: no headings, lists or markdown.

Notes:
---
%s
---`

const quizPrompt = `Write exactly %d multiple choice questions that check understanding of the lecture
below. Every question has exactly four options labeled "A", "B", "C" and "D", one
correct answer and a short explanation of why it is correct.

Answer with JSON only, using this shape:
{"questions": [{"id": 1, "question": "...?", "options": [{"id": "A", "text": "..."},
{"id": "B", "text": "..."}, {"id": "C", "text": "..."}, {"id": "D", "text": "..."}],
"correct_answer": "A", "explanation": "..."}]}

Notes:
---
%s
---

Transcript excerpt:
---
%s
---`
